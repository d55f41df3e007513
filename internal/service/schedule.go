package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

// ScheduleStore is the part of the state client the schedule controller uses.
type ScheduleStore interface {
	ReadSchedule(ctx context.Context) (*models.Schedule, error)
	WriteSchedule(ctx context.Context, s models.Schedule) error
	SubscribeSchedule(ctx context.Context) (<-chan *models.Schedule, error)
}

// ScheduleService keeps the latest stored schedule and the edit form.
type ScheduleService struct {
	store ScheduleStore
	log   *logger.Logger

	mu      sync.RWMutex
	current *models.Schedule
	form    models.ScheduleForm
}

func NewScheduleService(store ScheduleStore, log *logger.Logger) *ScheduleService {
	return &ScheduleService{store: store, log: log}
}

// Run follows the stored schedule until ctx ends. Absent snapshots keep the
// previous value.
func (s *ScheduleService) Run(ctx context.Context) error {
	ch, err := s.store.SubscribeSchedule(ctx)
	if err != nil {
		return fmt.Errorf("subscribe schedule: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case sched, ok := <-ch:
			if !ok {
				return nil
			}
			if sched != nil {
				s.apply(*sched)
			}
		}
	}
}

func (s *ScheduleService) apply(sched models.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sched
	s.form = models.ScheduleForm{Start: sched.Start(), End: sched.End()}
}

// Load reads the stored schedule once and fills the form. It reports whether
// a schedule exists.
func (s *ScheduleService) Load(ctx context.Context) (bool, error) {
	sched, err := s.store.ReadSchedule(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Errorw("schedule_load_failed", "err", err)
		}
		return false, fmt.Errorf("read schedule: %w", err)
	}
	if sched == nil {
		return false, nil
	}
	s.apply(*sched)
	return true, nil
}

// Update validates start/end ("HH:MM"), forces enabled and persists.
func (s *ScheduleService) Update(ctx context.Context, start, end string) (models.Schedule, error) {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	s.SetForm(start, end)
	if start == "" || end == "" {
		return models.Schedule{}, fmt.Errorf("%w: please enter both start and end times", ErrValidation)
	}
	sh, sm, err := parseClock(start)
	if err != nil {
		return models.Schedule{}, err
	}
	eh, em, err := parseClock(end)
	if err != nil {
		return models.Schedule{}, err
	}

	sched := models.Schedule{
		StartHour:   sh,
		StartMinute: sm,
		EndHour:     eh,
		EndMinute:   em,
		Enabled:     true,
	}
	if err := s.store.WriteSchedule(ctx, sched); err != nil {
		if s.log != nil {
			s.log.Errorw("schedule_update_failed", "err", err)
		}
		return models.Schedule{}, fmt.Errorf("write schedule: %w", err)
	}
	return sched, nil
}

// parseClock splits "HH:MM" into integers. A trailing ":SS" from time inputs
// is accepted and ignored. No range checks are applied.
func parseClock(v string) (int, int, error) {
	parts := strings.Split(v, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("%w: time %q must be HH:MM", ErrValidation, v)
	}
	var fields [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: time %q must be HH:MM", ErrValidation, v)
		}
		fields[i] = n
	}
	return fields[0], fields[1], nil
}

// Current returns the latest received schedule, nil if none yet.
func (s *ScheduleService) Current() *models.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

func (s *ScheduleService) Form() models.ScheduleForm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.form
}

func (s *ScheduleService) SetForm(start, end string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = models.ScheduleForm{Start: start, End: end}
}
