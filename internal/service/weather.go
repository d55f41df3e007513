package service

import (
	"context"
	"sync"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

// ForecastSource fetches the reduced daily forecast.
type ForecastSource interface {
	FiveDayForecast(ctx context.Context) ([]models.WeatherDayForecast, error)
}

// WeatherService polls the forecast and keeps the latest result or error.
type WeatherService struct {
	source ForecastSource
	now    func() time.Time
	stats  *Metrics
	log    *logger.Logger

	mu        sync.RWMutex
	forecast  []models.WeatherDayForecast
	lastErr   error
	fetchedAt time.Time
}

func NewWeatherService(source ForecastSource, metrics *Metrics, log *logger.Logger) *WeatherService {
	return &WeatherService{source: source, now: time.Now, stats: metrics, log: log}
}

// Run fetches immediately and then on every interval until ctx ends.
func (s *WeatherService) Run(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh performs one fetch. A success replaces the forecast wholesale and
// clears the error; a failure keeps the error until the next success.
func (s *WeatherService) Refresh(ctx context.Context) {
	days, err := s.source.FiveDayForecast(ctx)
	now := s.now()
	s.stats.weatherFetched(now, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.lastErr = err
		s.forecast = nil
		if s.log != nil {
			s.log.Warnw("weather_fetch_failed", "err", err)
		}
		return
	}
	s.lastErr = nil
	s.forecast = days
	s.fetchedAt = now
}

// Forecast returns the latest forecast and the current error, if any.
func (s *WeatherService) Forecast() ([]models.WeatherDayForecast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WeatherDayForecast, len(s.forecast))
	copy(out, s.forecast)
	return out, s.lastErr
}

func (s *WeatherService) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
