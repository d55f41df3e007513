package models

// LogAction is the kind of relay command that was issued.
type LogAction string

const (
	ActionOn    LogAction = "ON"
	ActionOff   LogAction = "OFF"
	ActionTimer LogAction = "TIMER"
)

// LogMode tells who initiated a command.
type LogMode string

const (
	ModeManual    LogMode = "manual"
	ModeAuto      LogMode = "auto"
	ModeScheduled LogMode = "scheduled"
)

// IrrigationLogEntry is one record of a successfully issued relay command.
type IrrigationLogEntry struct {
	ID        string    `json:"id"`
	Timestamp string    `json:"timestamp"` // local, human readable
	Action    LogAction `json:"action"`
	Duration  int       `json:"duration,omitempty"` // seconds, TIMER only
	Mode      LogMode   `json:"mode"`
}
