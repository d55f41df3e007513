package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

const assistantGreeting = "Hello! I'm your AI farming assistant. Ask me about crop guidance, irrigation advice, or any farming questions. I can speak in multiple Indian languages!"

// TextGenerator produces a reply for a full conversation.
type TextGenerator interface {
	Generate(ctx context.Context, history []models.ConversationMessage) (string, error)
}

// AssistantService keeps the conversation transcript and grounds every
// request in the latest sensor snapshot and forecast.
type AssistantService struct {
	gen       TextGenerator
	telemetry *TelemetryAggregator
	weather   *WeatherService
	speech    *SpeechService
	stats     *Metrics
	log       *logger.Logger

	mu         sync.Mutex
	transcript []models.ConversationMessage
}

func NewAssistantService(gen TextGenerator, telemetry *TelemetryAggregator, weather *WeatherService, speech *SpeechService, metrics *Metrics, log *logger.Logger) *AssistantService {
	return &AssistantService{
		gen:        gen,
		telemetry:  telemetry,
		weather:    weather,
		speech:     speech,
		stats:      metrics,
		log:        log,
		transcript: []models.ConversationMessage{{Role: models.RoleAssistant, Content: assistantGreeting}},
	}
}

// Messages returns a copy of the transcript.
func (s *AssistantService) Messages() []models.ConversationMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConversationMessage, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Send asks the model. The user turn and the reply are appended only when the
// request succeeds. When speak is set the reply is read aloud best-effort.
func (s *AssistantService) Send(ctx context.Context, lang, text string, speak bool) (models.ConversationMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.ConversationMessage{}, ErrEmptyMessage
	}
	if s.gen == nil {
		return models.ConversationMessage{}, ErrNotSupported
	}
	if lang == "" {
		lang = DefaultLanguage
	}

	var forecast []models.WeatherDayForecast
	if s.weather != nil {
		forecast, _ = s.weather.Forecast()
	}
	prompt := ComposePrompt(lang, s.telemetry.Sensors(), forecast)

	prior := s.Messages()
	history := make([]models.ConversationMessage, 0, len(prior)+2)
	history = append(history, models.ConversationMessage{Role: models.RoleUser, Content: prompt})
	history = append(history, prior...)
	history = append(history, models.ConversationMessage{Role: models.RoleUser, Content: text})

	reply, err := s.gen.Generate(ctx, history)
	if err != nil {
		s.stats.assistantFailed()
		if s.log != nil {
			s.log.Errorw("assistant_generate_failed", "err", err)
		}
		return models.ConversationMessage{}, fmt.Errorf("generate reply: %w", err)
	}

	answer := models.ConversationMessage{Role: models.RoleAssistant, Content: reply}
	s.mu.Lock()
	s.transcript = append(s.transcript,
		models.ConversationMessage{Role: models.RoleUser, Content: text},
		answer,
	)
	s.mu.Unlock()

	if speak && s.speech != nil {
		s.speech.Speak(reply, lang)
	}
	return answer, nil
}

// Reset clears the transcript back to the greeting.
func (s *AssistantService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcript = []models.ConversationMessage{{Role: models.RoleAssistant, Content: assistantGreeting}}
}
