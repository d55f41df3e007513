package models

// RelayState is the commanded/observed pump relay position.
type RelayState string

const (
	RelayOn  RelayState = "ON"
	RelayOff RelayState = "OFF"
)

// Opposite returns the other relay position.
func (r RelayState) Opposite() RelayState {
	if r == RelayOn {
		return RelayOff
	}
	return RelayOn
}

// ParseRelay normalises a stored relay value: "ON" or boolean true is ON,
// anything else (including absent) is OFF.
func ParseRelay(v any) RelayState {
	switch t := v.(type) {
	case string:
		if t == string(RelayOn) {
			return RelayOn
		}
	case bool:
		if t {
			return RelayOn
		}
	case RelayState:
		if t == RelayOn {
			return RelayOn
		}
	}
	return RelayOff
}

// SensorState is the latest device snapshot published at {root}/data.
// Every reading is optional; a nil field means the device did not report it.
type SensorState struct {
	Temperature  *float64 `json:"temperature,omitempty"`  // °C
	Humidity     *float64 `json:"humidity,omitempty"`     // %
	SoilPercent  *float64 `json:"soil_percent,omitempty"` // 0..100
	SoilRaw      *int     `json:"soil_raw,omitempty"`     // ADC value
	LightPercent *float64 `json:"ldr_percent,omitempty"`  // 0..100
	Rain         *string  `json:"rain,omitempty"`         // categorical, firmware defined
	RelayRaw     any      `json:"relay_state,omitempty"`  // "ON"/"OFF" or bool depending on firmware
	AutoEnabled  *bool    `json:"autoControl,omitempty"`
}

// Relay returns the reported relay position, OFF when absent.
func (s SensorState) Relay() RelayState {
	return ParseRelay(s.RelayRaw)
}

// AutoControl reports whether the device runs in automatic mode (false when absent).
func (s SensorState) AutoControl() bool {
	return s.AutoEnabled != nil && *s.AutoEnabled
}

// Float returns a pointer to v. Handy for building snapshots in tests and the simulator.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
