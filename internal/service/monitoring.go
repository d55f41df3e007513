package service

import (
	"agrisense/internal/models"
)

// HealthSource reports the remote store connection state.
type HealthSource interface {
	Health() models.StoreHealth
}

// MonitoringService assembles read-only views over the application state.
type MonitoringService struct {
	telemetry *TelemetryAggregator
	schedule  *ScheduleService
	weather   *WeatherService
	relay     *RelayService
	health    HealthSource
	stats     *Metrics
}

func NewMonitoringService(telemetry *TelemetryAggregator, schedule *ScheduleService, weather *WeatherService, relay *RelayService, health HealthSource, metrics *Metrics) *MonitoringService {
	return &MonitoringService{
		telemetry: telemetry,
		schedule:  schedule,
		weather:   weather,
		relay:     relay,
		health:    health,
		stats:     metrics,
	}
}

// Dashboard returns the full view pushed to the presentation layer.
func (s *MonitoringService) Dashboard() models.Dashboard {
	sensors := s.telemetry.Sensors()
	forecast, weatherErr := s.forecast()

	d := models.Dashboard{
		Sensors:     sensors,
		Relay:       models.RelayOff,
		SoilStatus:  SoilStatus(sensors),
		TempStatus:  TemperatureStatus(sensors),
		Chart:       s.telemetry.Chart(),
		Logs:        s.telemetry.Logs(),
		Advice:      AdviseFromState(sensors, forecast),
		Weather:     forecast,
		Store:       s.Health(),
		AutoControl: s.telemetry.AutoControl(),
	}
	if sensors != nil {
		d.Relay = sensors.Relay()
	}
	if weatherErr != nil {
		d.WeatherError = weatherErr.Error()
	}
	if s.schedule != nil {
		d.Schedule = s.schedule.Current()
		d.ScheduleForm = s.schedule.Form()
	}
	if s.relay != nil {
		d.CommandInFlight = s.relay.InFlight()
	}
	return d
}

func (s *MonitoringService) forecast() ([]models.WeatherDayForecast, error) {
	if s.weather == nil {
		return nil, nil
	}
	return s.weather.Forecast()
}

// Sensors returns the cached snapshot, nil before the first one arrives.
func (s *MonitoringService) Sensors() *models.SensorState { return s.telemetry.Sensors() }

func (s *MonitoringService) Chart() []models.ChartPoint { return s.telemetry.Chart() }

func (s *MonitoringService) ChartStats() models.ChartStats { return s.telemetry.ChartStats() }

// Advice grades the current snapshot against the first forecast day.
func (s *MonitoringService) Advice() models.Advice {
	forecast, _ := s.forecast()
	return AdviseFromState(s.telemetry.Sensors(), forecast)
}

// Health reports the store connection and mirrors it into metrics.
func (s *MonitoringService) Health() models.StoreHealth {
	if s.health == nil {
		return models.StoreHealth{}
	}
	h := s.health.Health()
	s.stats.storeHealth(h)
	return h
}
