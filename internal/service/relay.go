package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

// DefaultSettleDelay separates the opposite-state write from the target write
// of a forced transition.
const DefaultSettleDelay = 180 * time.Millisecond

// RelayStore is the part of the state client the sequencer writes through.
type RelayStore interface {
	ReadRelay(ctx context.Context) (models.RelayState, error)
	WriteRelay(ctx context.Context, state models.RelayState) error
	WriteTimerSeconds(ctx context.Context, seconds int) error
	WriteLastTimer(ctx context.Context, lt models.LastTimer) error
	WriteAutoControl(ctx context.Context, enabled bool) error
}

// RelayService drives the pump relay. The device reacts to value changes
// only, so a target equal to the stored value is preceded by a write of the
// opposite value.
type RelayService struct {
	store     RelayStore
	telemetry *TelemetryAggregator
	settle    time.Duration
	sleep     func(ctx context.Context, d time.Duration) error
	now       func() time.Time
	busy      atomic.Bool
	stats     *Metrics
	log       *logger.Logger
}

func NewRelayService(store RelayStore, telemetry *TelemetryAggregator, settle time.Duration, metrics *Metrics, log *logger.Logger) *RelayService {
	if settle < 0 {
		settle = DefaultSettleDelay
	}
	return &RelayService{
		store:     store,
		telemetry: telemetry,
		settle:    settle,
		sleep:     sleepContext,
		now:       time.Now,
		stats:     metrics,
		log:       log,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// InFlight reports whether a relay or timer command is running.
func (s *RelayService) InFlight() bool { return s.busy.Load() }

func (s *RelayService) acquire() error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrCommandPending
	}
	return nil
}

func (s *RelayService) release() { s.busy.Store(false) }

// SetRelay forces the relay into target and logs the command on success.
func (s *RelayService) SetRelay(ctx context.Context, target models.RelayState) (models.IrrigationLogEntry, error) {
	if target != models.RelayOn && target != models.RelayOff {
		return models.IrrigationLogEntry{}, fmt.Errorf("%w: relay state must be ON or OFF, got %q", ErrValidation, target)
	}
	if err := s.acquire(); err != nil {
		return models.IrrigationLogEntry{}, err
	}
	defer s.release()

	return s.setRelayLocked(ctx, target)
}

func (s *RelayService) setRelayLocked(ctx context.Context, target models.RelayState) (models.IrrigationLogEntry, error) {
	if err := s.forceTransition(ctx, target); err != nil {
		s.stats.commandFailed("relay")
		if s.log != nil {
			s.log.Errorw("relay_command_failed", "target", target, "err", err)
		}
		return models.IrrigationLogEntry{}, err
	}
	return s.telemetry.AppendLog(ctx, models.LogAction(target), s.mode(), 0), nil
}

// forceTransition reads the stored relay value fresh and writes the sequence
// that guarantees the device observes a change.
func (s *RelayService) forceTransition(ctx context.Context, target models.RelayState) error {
	current, err := s.store.ReadRelay(ctx)
	if err != nil {
		return fmt.Errorf("read relay: %w", err)
	}

	if current == target {
		s.stats.forcedEdge()
		if err := s.store.WriteRelay(ctx, target.Opposite()); err != nil {
			return fmt.Errorf("write relay %s: %w", target.Opposite(), err)
		}
		if err := s.sleep(ctx, s.settle); err != nil {
			return fmt.Errorf("settle: %w", err)
		}
	}

	if err := s.store.WriteRelay(ctx, target); err != nil {
		return fmt.Errorf("write relay %s: %w", target, err)
	}
	if s.log != nil {
		s.log.Infow("relay_set", "target", target, "previous", current, "forced", current == target)
	}
	return nil
}

func (s *RelayService) mode() models.LogMode {
	if s.telemetry.AutoControl() {
		return models.ModeAuto
	}
	return models.ModeManual
}

// StartTimer requests a timed pump run: it stores the duration, records the
// request, forces the relay ON and logs both the ON and the TIMER entries.
func (s *RelayService) StartTimer(ctx context.Context, seconds int) (models.IrrigationLogEntry, error) {
	if seconds <= 0 {
		return models.IrrigationLogEntry{}, fmt.Errorf("%w: timer seconds must be positive, got %d", ErrValidation, seconds)
	}
	if err := s.acquire(); err != nil {
		return models.IrrigationLogEntry{}, err
	}
	defer s.release()

	requested := s.now()
	if err := s.store.WriteTimerSeconds(ctx, seconds); err != nil {
		return s.timerFailed(fmt.Errorf("write timer_seconds: %w", err))
	}
	lt := models.LastTimer{Seconds: seconds, TS: requested.Format(logTimeLayout)}
	if err := s.store.WriteLastTimer(ctx, lt); err != nil {
		return s.timerFailed(fmt.Errorf("write last_timer: %w", err))
	}
	if _, err := s.setRelayLocked(ctx, models.RelayOn); err != nil {
		return models.IrrigationLogEntry{}, err
	}
	return s.telemetry.AppendLog(ctx, models.ActionTimer, models.ModeManual, seconds), nil
}

func (s *RelayService) timerFailed(err error) (models.IrrigationLogEntry, error) {
	s.stats.commandFailed("timer")
	if s.log != nil {
		s.log.Errorw("timer_command_failed", "err", err)
	}
	return models.IrrigationLogEntry{}, err
}

// SetAutoControl writes the device's automatic-mode flag.
func (s *RelayService) SetAutoControl(ctx context.Context, enabled bool) error {
	if err := s.store.WriteAutoControl(ctx, enabled); err != nil {
		s.stats.commandFailed("auto_control")
		if s.log != nil {
			s.log.Errorw("auto_control_failed", "enabled", enabled, "err", err)
		}
		return fmt.Errorf("write autoControl: %w", err)
	}
	return nil
}
