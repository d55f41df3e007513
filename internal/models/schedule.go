package models

import (
	"fmt"
	"time"
)

// Schedule is the daily irrigation window stored at {root}/schedule.
// The end may be earlier than the start (overnight window).
type Schedule struct {
	StartHour   int  `json:"startHour"`
	StartMinute int  `json:"startMinute"`
	EndHour     int  `json:"endHour"`
	EndMinute   int  `json:"endMinute"`
	Enabled     bool `json:"enabled"`
}

// Start renders the window start as HH:MM.
func (s Schedule) Start() string { return fmt.Sprintf("%02d:%02d", s.StartHour, s.StartMinute) }

// End renders the window end as HH:MM.
func (s Schedule) End() string { return fmt.Sprintf("%02d:%02d", s.EndHour, s.EndMinute) }

// Contains reports whether the wall-clock time of t falls inside the window.
func (s Schedule) Contains(t time.Time) bool {
	now := t.Hour()*60 + t.Minute()
	start := s.StartHour*60 + s.StartMinute
	end := s.EndHour*60 + s.EndMinute
	if start == end {
		return false
	}
	if start < end {
		return now >= start && now < end
	}
	return now >= start || now < end
}

// ScheduleForm holds the transient HH:MM strings being edited.
type ScheduleForm struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// LastTimer is written to {root}/last_timer when a timed run is requested.
type LastTimer struct {
	Seconds int    `json:"seconds"`
	TS      string `json:"ts"` // local timestamp of the request
}
