package models

import "time"

// StoreHealth describes the remote store connection.
type StoreHealth struct {
	Backend     string    `json:"backend"`
	Connected   bool      `json:"connected"`
	LastError   string    `json:"last_error,omitempty"`
	LastEventAt time.Time `json:"last_event_at,omitempty"`
}

// Dashboard is the aggregate view pushed to the presentation layer.
type Dashboard struct {
	Sensors         *SensorState         `json:"sensors,omitempty"` // nil until the first snapshot
	Relay           RelayState           `json:"relay"`
	AutoControl     bool                 `json:"auto_control"`
	SoilStatus      AdviceStatus         `json:"soil_status"`
	TempStatus      AdviceStatus         `json:"temperature_status"`
	Chart           []ChartPoint         `json:"chart"`
	Logs            []IrrigationLogEntry `json:"logs"`
	Schedule        *Schedule            `json:"schedule,omitempty"`
	ScheduleForm    ScheduleForm         `json:"schedule_form"`
	Advice          Advice               `json:"advice"`
	Weather         []WeatherDayForecast `json:"weather"`
	WeatherError    string               `json:"weather_error,omitempty"`
	Store           StoreHealth          `json:"store"`
	CommandInFlight bool                 `json:"command_in_flight"`
}
