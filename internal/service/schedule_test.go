package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"agrisense/internal/models"
)

func TestScheduleUpdate(t *testing.T) {
	tests := []struct {
		name       string
		start, end string
		want       models.Schedule
		wantErr    bool
	}{
		{
			name:  "morning window",
			start: "06:30", end: "18:45",
			want: models.Schedule{StartHour: 6, StartMinute: 30, EndHour: 18, EndMinute: 45, Enabled: true},
		},
		{
			name:  "trims whitespace",
			start: " 7:05 ", end: "08:00",
			want: models.Schedule{StartHour: 7, StartMinute: 5, EndHour: 8, Enabled: true},
		},
		{
			name:  "seconds ignored",
			start: "06:30:00", end: "18:45:59",
			want: models.Schedule{StartHour: 6, StartMinute: 30, EndHour: 18, EndMinute: 45, Enabled: true},
		},
		{name: "too many fields", start: "06:30:00:00", end: "08:00", wantErr: true},
		{name: "bad seconds", start: "06:30:xx", end: "08:00", wantErr: true},
		{name: "empty start", start: "", end: "08:00", wantErr: true},
		{name: "empty end", start: "06:00", end: "  ", wantErr: true},
		{name: "missing colon", start: "0630", end: "08:00", wantErr: true},
		{name: "not numeric", start: "ab:cd", end: "08:00", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			svc := NewScheduleService(store, nil)

			got, err := svc.Update(context.Background(), tt.start, tt.end)
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("expected ErrValidation, got %v", err)
				}
				if store.schedule != nil {
					t.Fatalf("expected nothing written")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
			if store.schedule == nil || *store.schedule != tt.want {
				t.Fatalf("expected stored %+v, got %+v", tt.want, store.schedule)
			}
		})
	}
}

func TestScheduleUpdate_KeepsFormOnError(t *testing.T) {
	store := newFakeStore()
	store.writeErr["schedule"] = errors.New("offline")
	svc := NewScheduleService(store, nil)

	if _, err := svc.Update(context.Background(), "05:00", "06:00"); err == nil {
		t.Fatalf("expected error, got nil")
	}
	if f := svc.Form(); f.Start != "05:00" || f.End != "06:00" {
		t.Fatalf("expected form kept, got %+v", f)
	}
}

func TestScheduleLoad(t *testing.T) {
	store := newFakeStore()
	svc := NewScheduleService(store, nil)

	found, err := svc.Load(context.Background())
	if err != nil || found {
		t.Fatalf("expected absent schedule, got found=%v err=%v", found, err)
	}

	store.schedule = &models.Schedule{StartHour: 6, StartMinute: 30, EndHour: 18, EndMinute: 45, Enabled: true}
	found, err = svc.Load(context.Background())
	if err != nil || !found {
		t.Fatalf("expected schedule, got found=%v err=%v", found, err)
	}
	if f := svc.Form(); f.Start != "06:30" || f.End != "18:45" {
		t.Fatalf("expected form 06:30-18:45, got %+v", f)
	}

	store.readErr = errors.New("read failed")
	if _, err := svc.Load(context.Background()); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestScheduleRun_NullKeepsPrevious(t *testing.T) {
	store := newFakeStore()
	svc := NewScheduleService(store, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = svc.Run(ctx)
		close(done)
	}()

	store.scheduleCh <- &models.Schedule{StartHour: 5, EndHour: 6, Enabled: true}
	store.scheduleCh <- nil
	close(store.scheduleCh)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after feed closed")
	}
	cancel()

	cur := svc.Current()
	if cur == nil || cur.StartHour != 5 {
		t.Fatalf("expected previous schedule kept, got %+v", cur)
	}
	if f := svc.Form(); f.Start != "05:00" || f.End != "06:00" {
		t.Fatalf("unexpected form: %+v", f)
	}
}
