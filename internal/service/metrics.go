package service

import (
	"time"

	"agrisense/internal/models"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the dashboard's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	sensorReading      *prometheus.GaugeVec
	relayCommands      *prometheus.CounterVec
	forcedEdges        prometheus.Counter
	commandFailures    *prometheus.CounterVec
	weatherFailures    prometheus.Counter
	weatherLastSuccess prometheus.Gauge
	assistantFailures  prometheus.Counter
	storeConnected     prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		sensorReading: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agrisense_sensor_reading",
				Help: "Latest reported sensor value",
			},
			[]string{"sensor"},
		),
		relayCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agrisense_relay_commands_total",
				Help: "Relay commands written to the store",
			},
			[]string{"action", "mode"},
		),
		forcedEdges: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agrisense_relay_forced_edges_total",
				Help: "Relay commands that required an opposite-state write first",
			},
		),
		commandFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agrisense_command_failures_total",
				Help: "Failed store commands by operation",
			},
			[]string{"op"},
		),
		weatherFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agrisense_weather_fetch_failures_total",
				Help: "Failed forecast fetches",
			},
		),
		weatherLastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "agrisense_weather_last_success_timestamp_seconds",
				Help: "Unix time of the last successful forecast fetch",
			},
		),
		assistantFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "agrisense_assistant_failures_total",
				Help: "Failed text-generation requests",
			},
		),
		storeConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "agrisense_store_connected",
				Help: "1 when the remote store connection is healthy",
			},
		),
	}
	m.Registry.MustRegister(
		m.sensorReading,
		m.relayCommands,
		m.forcedEdges,
		m.commandFailures,
		m.weatherFailures,
		m.weatherLastSuccess,
		m.assistantFailures,
		m.storeConnected,
	)
	return m
}

func (m *Metrics) observeSensors(s models.SensorState) {
	if m == nil {
		return
	}
	set := func(name string, v *float64) {
		if v != nil {
			m.sensorReading.WithLabelValues(name).Set(*v)
		}
	}
	set("temperature", s.Temperature)
	set("humidity", s.Humidity)
	set("soil_percent", s.SoilPercent)
	set("light_percent", s.LightPercent)
	relay := 0.0
	if s.Relay() == models.RelayOn {
		relay = 1
	}
	m.sensorReading.WithLabelValues("relay").Set(relay)
}

func (m *Metrics) relayCommand(action models.LogAction, mode models.LogMode) {
	if m == nil {
		return
	}
	m.relayCommands.WithLabelValues(string(action), string(mode)).Inc()
}

func (m *Metrics) forcedEdge() {
	if m == nil {
		return
	}
	m.forcedEdges.Inc()
}

func (m *Metrics) commandFailed(op string) {
	if m == nil {
		return
	}
	m.commandFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) weatherFetched(at time.Time, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.weatherFailures.Inc()
		return
	}
	m.weatherLastSuccess.Set(float64(at.Unix()))
}

func (m *Metrics) assistantFailed() {
	if m == nil {
		return
	}
	m.assistantFailures.Inc()
}

func (m *Metrics) storeHealth(h models.StoreHealth) {
	if m == nil {
		return
	}
	if h.Connected {
		m.storeConnected.Set(1)
		return
	}
	m.storeConnected.Set(0)
}
