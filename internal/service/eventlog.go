package service

import (
	"fmt"
	"strings"

	"agrisense/internal/models"
)

// LogFilter narrows the irrigation log. Empty fields match everything.
type LogFilter struct {
	Action string
	Mode   string
	Limit  int
}

type EventLogService struct {
	telemetry *TelemetryAggregator
}

func NewEventLogService(telemetry *TelemetryAggregator) *EventLogService {
	return &EventLogService{telemetry: telemetry}
}

// normalizeAndValidateFilter uppercases the action, lowercases the mode and
// rejects unknown values.
func normalizeAndValidateFilter(f LogFilter) (models.LogAction, models.LogMode, error) {
	action := models.LogAction(strings.ToUpper(strings.TrimSpace(f.Action)))
	switch action {
	case "", models.ActionOn, models.ActionOff, models.ActionTimer:
	default:
		return "", "", fmt.Errorf("%w: unknown action %q", ErrValidation, f.Action)
	}

	mode := models.LogMode(strings.ToLower(strings.TrimSpace(f.Mode)))
	switch mode {
	case "", models.ModeManual, models.ModeAuto, models.ModeScheduled:
	default:
		return "", "", fmt.Errorf("%w: unknown mode %q", ErrValidation, f.Mode)
	}

	if f.Limit < 0 {
		return "", "", fmt.Errorf("%w: limit must not be negative", ErrValidation)
	}
	return action, mode, nil
}

// List returns matching entries newest first.
func (s *EventLogService) List(f LogFilter) ([]models.IrrigationLogEntry, error) {
	action, mode, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}

	out := make([]models.IrrigationLogEntry, 0, LogCapacity)
	for _, e := range s.telemetry.Logs() {
		if action != "" && e.Action != action {
			continue
		}
		if mode != "" && e.Mode != mode {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}
