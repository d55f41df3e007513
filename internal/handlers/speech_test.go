package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"agrisense/internal/service"
)

func TestSpeechHandlers_Speak(t *testing.T) {
	sp := &mockSpeech{synthesis: true}
	r := newTestRouter(&service.Service{Speech: sp})

	w := doJSON(t, r, http.MethodPost, "/api/v1/speech/speak", `{"text":"Soil moisture optimal","language":"ta-IN"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if len(sp.spoken) != 1 || sp.lastLang != "ta-IN" {
		t.Fatalf("unexpected speak calls: %v %s", sp.spoken, sp.lastLang)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/v1/speech/speak", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without text, got %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodPost, "/api/v1/speech/stop", ""); w.Code != http.StatusOK || sp.stops != 1 {
		t.Fatalf("expected stop, got %d stops", sp.stops)
	}
}

func TestSpeechHandlers_SpeakUnsupportedStillOK(t *testing.T) {
	r := newTestRouter(&service.Service{Speech: &mockSpeech{}})
	w := doJSON(t, r, http.MethodPost, "/api/v1/speech/speak", `{"text":"hi"}`)
	var resp map[string]bool
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp["supported"] {
		t.Fatalf("expected 200 with supported=false, got %d %v", w.Code, resp)
	}
}

func TestSpeechHandlers_Listen(t *testing.T) {
	tests := []struct {
		name          string
		speech        *mockSpeech
		body          string
		wantSupported bool
		wantText      string
		wantLang      string
	}{
		{"no recognizer", &mockSpeech{listenErr: service.ErrNotSupported}, "", false, "", "en-US"},
		{"heard", &mockSpeech{recognition: true, heard: "pump on"}, `{"language":"hi-IN"}`, true, "pump on", "hi-IN"},
		{"recognition failed", &mockSpeech{recognition: true, listenErr: errors.New("no-speech")}, "", true, "", "en-US"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Speech: tt.speech})
			w := doJSON(t, r, http.MethodPost, "/api/v1/speech/listen", tt.body)
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d", w.Code)
			}
			var resp struct {
				Supported bool   `json:"supported"`
				Text      string `json:"text"`
				Message   string `json:"message"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Supported != tt.wantSupported || resp.Text != tt.wantText {
				t.Fatalf("unexpected response: %+v", resp)
			}
			if !tt.wantSupported && resp.Message != msgRecognitionUnsupported {
				t.Fatalf("expected fallback notice, got %q", resp.Message)
			}
			if tt.speech.lastLang != tt.wantLang {
				t.Fatalf("expected language %s, got %s", tt.wantLang, tt.speech.lastLang)
			}
		})
	}
}

func TestSpeechHandlers_Status(t *testing.T) {
	r := newTestRouter(&service.Service{Speech: &mockSpeech{synthesis: true, speaking: true}})
	w := doJSON(t, r, http.MethodGet, "/api/v1/speech", "")
	var resp map[string]bool
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp["synthesis"] || resp["recognition"] || !resp["speaking"] {
		t.Fatalf("unexpected status: %v", resp)
	}
}
