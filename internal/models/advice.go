package models

// AdviceStatus grades the current irrigation need.
type AdviceStatus string

const (
	StatusCritical AdviceStatus = "critical"
	StatusWarning  AdviceStatus = "warning"
	StatusGood     AdviceStatus = "good"
	StatusNormal   AdviceStatus = "normal"
)

// Advice is the outcome of the irrigation advisory rules.
type Advice struct {
	Status  AdviceStatus `json:"status"`
	Message string       `json:"message"`
	Action  string       `json:"action"`
}
