package service

import (
	"context"
	"sync"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"
	"agrisense/internal/repository"
)

// Relay issues pump commands.
type Relay interface {
	SetRelay(ctx context.Context, target models.RelayState) (models.IrrigationLogEntry, error)
	StartTimer(ctx context.Context, seconds int) (models.IrrigationLogEntry, error)
	SetAutoControl(ctx context.Context, enabled bool) error
	InFlight() bool
}

// Monitoring exposes read-only views: dashboard, sensors, chart, advice.
type Monitoring interface {
	Dashboard() models.Dashboard
	Sensors() *models.SensorState
	Chart() []models.ChartPoint
	ChartStats() models.ChartStats
	Advice() models.Advice
	Health() models.StoreHealth
}

type Scheduling interface {
	Load(ctx context.Context) (bool, error)
	Update(ctx context.Context, start, end string) (models.Schedule, error)
	Current() *models.Schedule
	Form() models.ScheduleForm
}

// EventLog exposes the irrigation log with filtering.
type EventLog interface {
	List(f LogFilter) ([]models.IrrigationLogEntry, error)
}

type Forecast interface {
	Forecast() ([]models.WeatherDayForecast, error)
}

type Assistant interface {
	Messages() []models.ConversationMessage
	Send(ctx context.Context, lang, text string, speak bool) (models.ConversationMessage, error)
	Reset()
}

type Speech interface {
	Speak(text, lang string) bool
	Stop()
	Speaking() bool
	SynthesisSupported() bool
	RecognitionSupported() bool
	Listen(ctx context.Context, lang string) (string, error)
}

// Simulator runs the emulated field device. Stop via context cancellation.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Relay      Relay
	Monitoring Monitoring
	Scheduling Scheduling
	EventLog   EventLog
	Forecast   Forecast
	Assistant  Assistant
	Speech     Speech
	Simulator  Simulator
	Metrics    *Metrics

	telemetry *TelemetryAggregator
	schedule  *ScheduleService
	weather   *WeatherService
	speech    *SpeechService
	feed      SensorFeed
	reader    SensorReader
	log       *logger.Logger
}

// Deps are the external collaborators of NewService. Generator and Forecast
// may be nil-valued clients; their failures surface per request.
type Deps struct {
	Forecaster  ForecastSource
	Generator   TextGenerator
	Speaker     Speaker
	Recognizer  Recognizer
	Sinks       []LogSink
	SettleDelay time.Duration
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps, log *logger.Logger) *Service {
	metrics := NewMetrics()
	telemetry := NewTelemetryAggregator(metrics, log.Named("telemetry"), deps.Sinks...)
	relay := NewRelayService(repos.State, telemetry, deps.SettleDelay, metrics, log.Named("relay"))
	schedule := NewScheduleService(repos.State, log.Named("schedule"))
	weather := NewWeatherService(deps.Forecaster, metrics, log.Named("weather"))
	speech := NewSpeechService(deps.Speaker, deps.Recognizer, log.Named("speech"))

	return &Service{
		Relay:      relay,
		Monitoring: NewMonitoringService(telemetry, schedule, weather, relay, repos.State, metrics),
		Scheduling: schedule,
		EventLog:   NewEventLogService(telemetry),
		Forecast:   weather,
		Assistant:  NewAssistantService(deps.Generator, telemetry, weather, speech, metrics, log.Named("assistant")),
		Speech:     speech,
		Simulator:  NewSimulatorService(repos.State, log.Named("simulator")),
		Metrics:    metrics,

		telemetry: telemetry,
		schedule:  schedule,
		weather:   weather,
		speech:    speech,
		feed:      repos.State,
		reader:    repos.State,
		log:       log,
	}
}

// Start launches the subscription and polling loops. The returned function
// waits for them after ctx is canceled.
func (s *Service) Start(ctx context.Context, weatherInterval time.Duration) (wait func()) {
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.telemetry.Run(ctx, s.feed); err != nil && s.log != nil {
			s.log.Errorw("telemetry_stopped", "err", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.schedule.Run(ctx); err != nil && s.log != nil {
			s.log.Errorw("schedule_stopped", "err", err)
		}
	}()

	if s.weather.source != nil && weatherInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.weather.Run(ctx, weatherInterval)
		}()
	}

	return func() {
		wg.Wait()
		s.Close()
	}
}

// Close stops speech and flushes queued log entries to the sinks. Safe to
// call more than once.
func (s *Service) Close() {
	s.speech.Close()
	s.telemetry.Close()
}

// Prime loads the current device snapshot without starting the loops, so
// one-shot commands see the device's autoControl flag.
func (s *Service) Prime(ctx context.Context) error {
	return s.telemetry.Prime(ctx, s.reader)
}
