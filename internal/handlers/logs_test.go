package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"agrisense/internal/models"
	"agrisense/internal/service"

	"github.com/vmihailenco/msgpack/v5"
)

func TestLogsHandler_Filters(t *testing.T) {
	ev := &mockEventLog{resp: []models.IrrigationLogEntry{
		{ID: "2", Action: models.ActionTimer, Duration: 60, Mode: models.ModeManual},
		{ID: "1", Action: models.ActionOn, Mode: models.ModeManual},
	}}
	r := newTestRouter(&service.Service{EventLog: ev})

	w := doJSON(t, r, http.MethodGet, "/api/v1/logs?action=timer&mode=manual&limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if ev.lastFilter.Action != "timer" || ev.lastFilter.Mode != "manual" || ev.lastFilter.Limit != 5 {
		t.Fatalf("unexpected filter: %+v", ev.lastFilter)
	}
	var resp struct {
		Count   int                         `json:"count"`
		Entries []models.IrrigationLogEntry `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 || resp.Entries[0].ID != "2" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

func TestLogsHandler_BadRequests(t *testing.T) {
	ev := &mockEventLog{err: fmt.Errorf("%w: unknown action", service.ErrValidation)}
	r := newTestRouter(&service.Service{EventLog: ev})

	if w := doJSON(t, r, http.MethodGet, "/api/v1/logs?action=PAUSE", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation error, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/logs?limit=-2", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative limit, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/logs?limit=abc", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric limit, got %d", w.Code)
	}
}

func TestLogsHandler_Msgpack(t *testing.T) {
	ev := &mockEventLog{resp: []models.IrrigationLogEntry{{ID: "abc", Action: models.ActionOff, Mode: models.ModeAuto}}}
	r := newTestRouter(&service.Service{EventLog: ev})

	w := doJSON(t, r, http.MethodGet, "/api/v1/logs?format=msgpack", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentMsgpack {
		t.Fatalf("expected %s, got %s", contentMsgpack, ct)
	}

	var resp struct {
		Count   int                         `json:"count"`
		Entries []models.IrrigationLogEntry `json:"entries"`
	}
	dec := msgpack.NewDecoder(w.Body)
	dec.SetCustomStructTag("json")
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decode msgpack: %v", err)
	}
	if resp.Count != 1 || resp.Entries[0].ID != "abc" || resp.Entries[0].Mode != models.ModeAuto {
		t.Fatalf("unexpected body: %+v", resp)
	}
}
