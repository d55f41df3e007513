package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"agrisense/internal/models"
)

var testNow = time.Date(2026, time.January, 2, 6, 30, 0, 0, time.UTC)

type sleepRecorder struct {
	store  *fakeStore
	calls  []time.Duration
	marker int
}

func (r *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	r.calls = append(r.calls, d)
	r.marker = len(r.store.Writes())
	return nil
}

func newTestRelay(store *fakeStore) (*RelayService, *sleepRecorder) {
	svc := NewRelayService(store, newTestTelemetry(testNow), DefaultSettleDelay, nil, nil)
	rec := &sleepRecorder{store: store}
	svc.sleep = rec.sleep
	svc.now = fixedClock(testNow)
	return svc, rec
}

func TestSetRelay_WriteSequence(t *testing.T) {
	tests := []struct {
		name       string
		stored     models.RelayState
		target     models.RelayState
		wantWrites []string
		wantSleeps int
	}{
		{"off to on", models.RelayOff, models.RelayOn, []string{"relay=ON"}, 0},
		{"on to off", models.RelayOn, models.RelayOff, []string{"relay=OFF"}, 0},
		{"on again forces edge", models.RelayOn, models.RelayOn, []string{"relay=OFF", "relay=ON"}, 1},
		{"off again forces edge", models.RelayOff, models.RelayOff, []string{"relay=ON", "relay=OFF"}, 1},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.relay = tt.stored
			svc, rec := newTestRelay(store)

			entry, err := svc.SetRelay(context.Background(), tt.target)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := store.Writes(); !reflect.DeepEqual(got, tt.wantWrites) {
				t.Fatalf("expected writes %v, got %v", tt.wantWrites, got)
			}
			if len(rec.calls) != tt.wantSleeps {
				t.Fatalf("expected %d settle sleeps, got %d", tt.wantSleeps, len(rec.calls))
			}
			if tt.wantSleeps > 0 {
				if rec.calls[0] != DefaultSettleDelay {
					t.Fatalf("expected settle %v, got %v", DefaultSettleDelay, rec.calls[0])
				}
				if rec.marker != 1 {
					t.Fatalf("expected settle between the two writes, got after %d writes", rec.marker)
				}
			}
			if entry.Action != models.LogAction(tt.target) || entry.Mode != models.ModeManual {
				t.Fatalf("unexpected log entry: %+v", entry)
			}
			if entry.Timestamp != "1/2/2026, 6:30:00 AM" {
				t.Fatalf("expected timestamp 1/2/2026, 6:30:00 AM, got %q", entry.Timestamp)
			}
		})
	}
}

func TestSetRelay_ModeFollowsAutoControl(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestRelay(store)
	svc.telemetry.OnSensorSnapshot(&models.SensorState{AutoEnabled: models.Bool(true)})

	entry, err := svc.SetRelay(context.Background(), models.RelayOn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Mode != models.ModeAuto {
		t.Fatalf("expected mode auto, got %s", entry.Mode)
	}
}

func TestSetRelay_FailureLeavesLogUntouched(t *testing.T) {
	store := newFakeStore()
	store.writeErr["relay=ON"] = errors.New("store offline")
	svc, _ := newTestRelay(store)

	if _, err := svc.SetRelay(context.Background(), models.RelayOn); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if logs := svc.telemetry.Logs(); len(logs) != 0 {
		t.Fatalf("expected no log entries, got %d", len(logs))
	}
	if svc.InFlight() {
		t.Fatalf("expected busy flag cleared after failure")
	}
}

func TestSetRelay_ReadFailureWritesNothing(t *testing.T) {
	store := newFakeStore()
	store.readErr = errors.New("read failed")
	svc, _ := newTestRelay(store)

	if _, err := svc.SetRelay(context.Background(), models.RelayOff); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if w := store.Writes(); len(w) != 0 {
		t.Fatalf("expected no writes, got %v", w)
	}
}

func TestSetRelay_RejectsUnknownTarget(t *testing.T) {
	svc, _ := newTestRelay(newFakeStore())
	_, err := svc.SetRelay(context.Background(), models.RelayState("MAYBE"))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSetRelay_CommandPending(t *testing.T) {
	svc, _ := newTestRelay(newFakeStore())
	svc.busy.Store(true)

	if _, err := svc.SetRelay(context.Background(), models.RelayOn); !errors.Is(err, ErrCommandPending) {
		t.Fatalf("expected ErrCommandPending, got %v", err)
	}
	if _, err := svc.StartTimer(context.Background(), 60); !errors.Is(err, ErrCommandPending) {
		t.Fatalf("expected ErrCommandPending for timer, got %v", err)
	}
}

func TestStartTimer_Sequence(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestRelay(store)

	entry, err := svc.StartTimer(context.Background(), 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"timer_seconds=300", "last_timer", "relay=ON"}
	if got := store.Writes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected writes %v, got %v", want, got)
	}
	if store.lastTimer == nil || store.lastTimer.Seconds != 300 || store.lastTimer.TS != "1/2/2026, 6:30:00 AM" {
		t.Fatalf("unexpected last_timer: %+v", store.lastTimer)
	}
	if entry.Action != models.ActionTimer || entry.Duration != 300 || entry.Mode != models.ModeManual {
		t.Fatalf("unexpected timer entry: %+v", entry)
	}

	logs := svc.telemetry.Logs()
	if len(logs) != 2 {
		t.Fatalf("expected ON and TIMER entries, got %d", len(logs))
	}
	if logs[0].Action != models.ActionTimer || logs[1].Action != models.ActionOn {
		t.Fatalf("expected TIMER newest then ON, got %s, %s", logs[0].Action, logs[1].Action)
	}
}

func TestStartTimer_Invalid(t *testing.T) {
	for _, secs := range []int{0, -5} {
		store := newFakeStore()
		svc, _ := newTestRelay(store)
		if _, err := svc.StartTimer(context.Background(), secs); !errors.Is(err, ErrValidation) {
			t.Fatalf("seconds=%d: expected ErrValidation, got %v", secs, err)
		}
		if w := store.Writes(); len(w) != 0 {
			t.Fatalf("seconds=%d: expected no writes, got %v", secs, w)
		}
	}
}

func TestStartTimer_AbortsOnFailure(t *testing.T) {
	tests := []struct {
		name       string
		failOn     string
		wantWrites []string
	}{
		{"timer_seconds", "timer_seconds=120", []string{"timer_seconds=120"}},
		{"last_timer", "last_timer", []string{"timer_seconds=120", "last_timer"}},
		{"relay", "relay=ON", []string{"timer_seconds=120", "last_timer", "relay=ON"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			store.writeErr[tt.failOn] = errors.New("boom")
			svc, _ := newTestRelay(store)

			if _, err := svc.StartTimer(context.Background(), 120); err == nil {
				t.Fatalf("expected error, got nil")
			}
			if got := store.Writes(); !reflect.DeepEqual(got, tt.wantWrites) {
				t.Fatalf("expected writes %v, got %v", tt.wantWrites, got)
			}
			if logs := svc.telemetry.Logs(); len(logs) != 0 {
				t.Fatalf("expected no log entries, got %+v", logs)
			}
		})
	}
}

func TestSetAutoControl(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestRelay(store)

	if err := svc.SetAutoControl(context.Background(), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.auto {
		t.Fatalf("expected autoControl=true stored")
	}

	store.writeErr["autoControl=false"] = errors.New("denied")
	if err := svc.SetAutoControl(context.Background(), false); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestSleepContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sleepContext(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
