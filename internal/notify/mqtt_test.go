package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"agrisense/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type fakeToken struct {
	done chan struct{}
	err  error
}

func newDoneToken(err error) *fakeToken {
	t := &fakeToken{done: make(chan struct{}), err: err}
	close(t.done)
	return t
}

func (t *fakeToken) Wait() bool { return t.WaitTimeout(0) }

func (t *fakeToken) WaitTimeout(time.Duration) bool { return true }

func (t *fakeToken) Done() <-chan struct{} { return t.done }

func (t *fakeToken) Error() error { return t.err }

type fakeClient struct {
	connected bool
	token     *fakeToken

	topic    string
	qos      byte
	retained bool
	payload  []byte
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.topic, c.qos, c.retained = topic, qos, retained
	c.payload, _ = payload.([]byte)
	return c.token
}

func (c *fakeClient) IsConnected() bool { return c.connected }

func TestPublishLog(t *testing.T) {
	client := &fakeClient{connected: true, token: newDoneToken(nil)}
	p := newLogPublisher(client, "agrisense/logs", nil)
	p.now = func() time.Time { return time.Date(2026, 1, 2, 6, 30, 0, 0, time.UTC) }

	entry := models.IrrigationLogEntry{ID: "abc", Timestamp: "1/2/2026, 6:30:00 AM", Action: models.ActionTimer, Duration: 300, Mode: models.ModeManual}
	if err := p.PublishLog(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.topic != "agrisense/logs" || client.qos != 1 || client.retained {
		t.Fatalf("unexpected publish args: %s qos=%d retained=%v", client.topic, client.qos, client.retained)
	}

	var msg logMessage
	if err := json.Unmarshal(client.payload, &msg); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if msg.Event != "irrigation_log" || msg.Entry != entry {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestPublishLog_Errors(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeClient
	}{
		{"disconnected", &fakeClient{connected: false, token: newDoneToken(nil)}},
		{"broker error", &fakeClient{connected: true, token: newDoneToken(errors.New("not authorized"))}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := newLogPublisher(tt.client, "t", nil)
			if err := p.PublishLog(context.Background(), models.IrrigationLogEntry{ID: "x"}); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}
}

func TestPublishLog_ContextCanceled(t *testing.T) {
	client := &fakeClient{connected: true, token: &fakeToken{done: make(chan struct{})}}
	p := newLogPublisher(client, "t", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := p.PublishLog(ctx, models.IrrigationLogEntry{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
