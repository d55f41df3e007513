package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agrisense/internal/models"
)

type fakeGenerator struct {
	reply   string
	err     error
	history []models.ConversationMessage
}

func (f *fakeGenerator) Generate(ctx context.Context, history []models.ConversationMessage) (string, error) {
	f.history = history
	return f.reply, f.err
}

func TestAssistant_StartsWithGreeting(t *testing.T) {
	svc := NewAssistantService(&fakeGenerator{}, newTestTelemetry(testNow), nil, nil, nil, nil)
	msgs := svc.Messages()
	if len(msgs) != 1 || msgs[0].Role != models.RoleAssistant || msgs[0].Content != assistantGreeting {
		t.Fatalf("expected greeting only, got %+v", msgs)
	}
}

func TestAssistant_SendBuildsHistory(t *testing.T) {
	gen := &fakeGenerator{reply: "Water at dawn."}
	telemetry := newTestTelemetry(testNow)
	telemetry.OnSensorSnapshot(&models.SensorState{SoilPercent: models.Float(35)})
	svc := NewAssistantService(gen, telemetry, nil, nil, nil, nil)

	msg, err := svc.Send(context.Background(), "hi-IN", "When should I irrigate?", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Role != models.RoleAssistant || msg.Content != "Water at dawn." {
		t.Fatalf("unexpected reply: %+v", msg)
	}

	h := gen.history
	if len(h) != 3 {
		t.Fatalf("expected prompt, greeting and question, got %d turns", len(h))
	}
	if h[0].Role != models.RoleUser || !strings.Contains(h[0].Content, "Respond in हिंदी (Hindi) language.") {
		t.Fatalf("expected grounding prompt first, got %+v", h[0])
	}
	if !strings.Contains(h[0].Content, "Soil Moisture 35%") {
		t.Fatalf("expected prompt to carry sensor data, got %q", h[0].Content)
	}
	if h[1].Content != assistantGreeting || h[2].Content != "When should I irrigate?" {
		t.Fatalf("unexpected history order: %+v", h)
	}

	if n := len(svc.Messages()); n != 3 {
		t.Fatalf("expected transcript of 3, got %d", n)
	}
}

func TestAssistant_FailureLeavesTranscript(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewAssistantService(gen, newTestTelemetry(testNow), nil, nil, nil, nil)

	if _, err := svc.Send(context.Background(), "", "hello", false); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if n := len(svc.Messages()); n != 1 {
		t.Fatalf("expected transcript unchanged, got %d messages", n)
	}
}

func TestAssistant_RejectsBlank(t *testing.T) {
	gen := &fakeGenerator{reply: "x"}
	svc := NewAssistantService(gen, newTestTelemetry(testNow), nil, nil, nil, nil)

	if _, err := svc.Send(context.Background(), "", "   ", false); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if gen.history != nil {
		t.Fatalf("expected generator not called")
	}
}

func TestAssistant_SpeaksReply(t *testing.T) {
	speaker := newBlockingSpeaker()
	speech := NewSpeechService(speaker, nil, nil)
	defer speech.Close()
	svc := NewAssistantService(&fakeGenerator{reply: "ok"}, newTestTelemetry(testNow), nil, speech, nil, nil)

	if _, err := svc.Send(context.Background(), "ta-IN", "hi", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := <-speaker.started
	if got != "ok|ta-IN" {
		t.Fatalf("expected reply spoken in ta-IN, got %q", got)
	}
}

func TestAssistant_Reset(t *testing.T) {
	svc := NewAssistantService(&fakeGenerator{reply: "r"}, newTestTelemetry(testNow), nil, nil, nil, nil)
	_, _ = svc.Send(context.Background(), "", "q", false)
	svc.Reset()
	if n := len(svc.Messages()); n != 1 {
		t.Fatalf("expected greeting only after reset, got %d", n)
	}
}
