package models

// ChartPoint is one sample of the rolling sensor chart.
// Absent readings stay nil and are omitted, never coerced to zero.
type ChartPoint struct {
	Time        string   `json:"time"` // HH:MM
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Soil        *float64 `json:"soil,omitempty"`
}

// SeriesStats summarises one chart series over the visible window.
type SeriesStats struct {
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	StdDev  float64 `json:"std_dev"`
	Slope   float64 `json:"slope"` // units per sample
	Trend   string  `json:"trend"` // up | down | stable
}

// ChartStats groups the per-series summaries.
type ChartStats struct {
	Temperature *SeriesStats `json:"temperature,omitempty"`
	Humidity    *SeriesStats `json:"humidity,omitempty"`
	Soil        *SeriesStats `json:"soil,omitempty"`
}
