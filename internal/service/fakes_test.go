package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"agrisense/internal/models"
)

// fakeStore records every write in order and serves reads from memory.
type fakeStore struct {
	mu sync.Mutex

	relay     models.RelayState
	timerSecs int
	lastTimer *models.LastTimer
	auto      bool
	schedule  *models.Schedule
	sensors   []models.SensorState

	writes []string

	readErr  error
	writeErr map[string]error

	relayCh    chan models.RelayState
	scheduleCh chan *models.Schedule
	sensorCh   chan *models.SensorState
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		relay:      models.RelayOff,
		writeErr:   map[string]error{},
		relayCh:    make(chan models.RelayState, 16),
		scheduleCh: make(chan *models.Schedule, 16),
		sensorCh:   make(chan *models.SensorState, 16),
	}
}

func (f *fakeStore) record(op string) error {
	f.writes = append(f.writes, op)
	if err, ok := f.writeErr[op]; ok {
		return err
	}
	return nil
}

func (f *fakeStore) Writes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeStore) ReadRelay(ctx context.Context) (models.RelayState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.relay, f.readErr
}

func (f *fakeStore) WriteRelay(ctx context.Context, state models.RelayState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("relay=" + string(state)); err != nil {
		return err
	}
	f.relay = state
	return nil
}

func (f *fakeStore) WriteTimerSeconds(ctx context.Context, seconds int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(fmt.Sprintf("timer_seconds=%d", seconds)); err != nil {
		return err
	}
	f.timerSecs = seconds
	return nil
}

func (f *fakeStore) WriteLastTimer(ctx context.Context, lt models.LastTimer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("last_timer"); err != nil {
		return err
	}
	f.lastTimer = &lt
	return nil
}

func (f *fakeStore) WriteAutoControl(ctx context.Context, enabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(fmt.Sprintf("autoControl=%t", enabled)); err != nil {
		return err
	}
	f.auto = enabled
	return nil
}

func (f *fakeStore) ReadSchedule(ctx context.Context) (*models.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.schedule == nil {
		return nil, nil
	}
	s := *f.schedule
	return &s, nil
}

func (f *fakeStore) WriteSchedule(ctx context.Context, s models.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("schedule"); err != nil {
		return err
	}
	f.schedule = &s
	return nil
}

func (f *fakeStore) SubscribeSchedule(ctx context.Context) (<-chan *models.Schedule, error) {
	return f.scheduleCh, nil
}

func (f *fakeStore) SubscribeSensors(ctx context.Context) (<-chan *models.SensorState, error) {
	return f.sensorCh, nil
}

func (f *fakeStore) SubscribeRelay(ctx context.Context) (<-chan models.RelayState, error) {
	return f.relayCh, nil
}

func (f *fakeStore) ReadTimerSeconds(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timerSecs, f.readErr
}

func (f *fakeStore) ReadAutoControl(ctx context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auto, f.readErr
}

func (f *fakeStore) WriteSensors(ctx context.Context, s models.SensorState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("data"); err != nil {
		return err
	}
	f.sensors = append(f.sensors, s)
	return nil
}

func (f *fakeStore) Health() models.StoreHealth {
	return models.StoreHealth{Backend: "fake", Connected: true}
}

// fixedClock returns the same instant on every call.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// newTestTelemetry returns an aggregator with a fixed clock and sequential ids.
func newTestTelemetry(now time.Time) *TelemetryAggregator {
	a := NewTelemetryAggregator(nil, nil)
	a.now = fixedClock(now)
	n := 0
	a.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return a
}
