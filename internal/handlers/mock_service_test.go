package handlers

import (
	"context"

	"agrisense/internal/models"
	"agrisense/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockRelay struct {
	entry    models.IrrigationLogEntry
	err      error
	autoErr  error
	inFlight bool

	lastTarget  models.RelayState
	lastSeconds int
	lastAuto    *bool
	setCalls    int
	timerCalls  int
}

func (m *mockRelay) SetRelay(ctx context.Context, target models.RelayState) (models.IrrigationLogEntry, error) {
	m.setCalls++
	m.lastTarget = target
	return m.entry, m.err
}

func (m *mockRelay) StartTimer(ctx context.Context, seconds int) (models.IrrigationLogEntry, error) {
	m.timerCalls++
	m.lastSeconds = seconds
	return m.entry, m.err
}

func (m *mockRelay) SetAutoControl(ctx context.Context, enabled bool) error {
	m.lastAuto = &enabled
	return m.autoErr
}

func (m *mockRelay) InFlight() bool { return m.inFlight }

type mockMonitoring struct {
	dashboard models.Dashboard
	sensors   *models.SensorState
	chart     []models.ChartPoint
	stats     models.ChartStats
	advice    models.Advice
	health    models.StoreHealth
}

func (m *mockMonitoring) Dashboard() models.Dashboard { return m.dashboard }

func (m *mockMonitoring) Sensors() *models.SensorState { return m.sensors }

func (m *mockMonitoring) Chart() []models.ChartPoint { return m.chart }

func (m *mockMonitoring) ChartStats() models.ChartStats { return m.stats }

func (m *mockMonitoring) Advice() models.Advice { return m.advice }

func (m *mockMonitoring) Health() models.StoreHealth { return m.health }

type mockScheduling struct {
	current  *models.Schedule
	form     models.ScheduleForm
	found    bool
	err      error
	lastFrom string
	lastTo   string
}

func (m *mockScheduling) Load(ctx context.Context) (bool, error) { return m.found, m.err }

func (m *mockScheduling) Update(ctx context.Context, start, end string) (models.Schedule, error) {
	m.lastFrom, m.lastTo = start, end
	if m.err != nil {
		return models.Schedule{}, m.err
	}
	return models.Schedule{StartHour: 6, StartMinute: 30, EndHour: 18, EndMinute: 45, Enabled: true}, nil
}

func (m *mockScheduling) Current() *models.Schedule { return m.current }

func (m *mockScheduling) Form() models.ScheduleForm { return m.form }

type mockEventLog struct {
	resp       []models.IrrigationLogEntry
	err        error
	lastFilter service.LogFilter
}

func (m *mockEventLog) List(f service.LogFilter) ([]models.IrrigationLogEntry, error) {
	m.lastFilter = f
	return m.resp, m.err
}

type mockForecast struct {
	days []models.WeatherDayForecast
	err  error
}

func (m *mockForecast) Forecast() ([]models.WeatherDayForecast, error) { return m.days, m.err }

type mockAssistant struct {
	reply    models.ConversationMessage
	err      error
	messages []models.ConversationMessage

	lastLang  string
	lastText  string
	lastSpeak bool
	resets    int
}

func (m *mockAssistant) Messages() []models.ConversationMessage { return m.messages }

func (m *mockAssistant) Send(ctx context.Context, lang, text string, speak bool) (models.ConversationMessage, error) {
	m.lastLang, m.lastText, m.lastSpeak = lang, text, speak
	return m.reply, m.err
}

func (m *mockAssistant) Reset() { m.resets++ }

type mockSpeech struct {
	synthesis   bool
	recognition bool
	speaking    bool
	heard       string
	listenErr   error

	spoken   []string
	stops    int
	lastLang string
}

func (m *mockSpeech) Speak(text, lang string) bool {
	m.spoken = append(m.spoken, text)
	m.lastLang = lang
	return m.synthesis
}

func (m *mockSpeech) Stop() { m.stops++ }

func (m *mockSpeech) Speaking() bool { return m.speaking }

func (m *mockSpeech) SynthesisSupported() bool { return m.synthesis }

func (m *mockSpeech) RecognitionSupported() bool { return m.recognition }

func (m *mockSpeech) Listen(ctx context.Context, lang string) (string, error) {
	m.lastLang = lang
	return m.heard, m.listenErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
