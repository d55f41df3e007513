package service

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"agrisense/internal/logger"
)

// espeak default is 175 words/minute; synthesis runs at 0.9 of that
const speechWordsPerMinute = 157

// Speaker synthesises text aloud. Implementations must stop when ctx ends.
type Speaker interface {
	Speak(ctx context.Context, text, lang string) error
}

// Recognizer turns one spoken utterance into text.
type Recognizer interface {
	Listen(ctx context.Context, lang string) (string, error)
}

// CommandSpeaker runs an external TTS binary such as espeak-ng.
type CommandSpeaker struct {
	path string
}

// LookupSpeaker returns a Speaker backed by command, or nil when the binary
// is not installed.
func LookupSpeaker(command string) Speaker {
	if command == "" {
		return nil
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return nil
	}
	return &CommandSpeaker{path: path}
}

func (c *CommandSpeaker) Speak(ctx context.Context, text, lang string) error {
	cmd := exec.CommandContext(ctx, c.path,
		"-v", voiceFor(lang),
		"-s", strconv.Itoa(speechWordsPerMinute),
		text,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", c.path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// voiceFor maps "hi-IN" to the "hi" voice.
func voiceFor(lang string) string {
	code, _, _ := strings.Cut(lang, "-")
	if code == "" {
		return "en"
	}
	return strings.ToLower(code)
}

// SpeechService arbitrates synthesis: a new request cancels the one in
// flight and nothing is queued. Failures are logged only.
type SpeechService struct {
	speaker    Speaker
	recognizer Recognizer
	log        *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
	wg     sync.WaitGroup
}

func NewSpeechService(speaker Speaker, recognizer Recognizer, log *logger.Logger) *SpeechService {
	return &SpeechService{speaker: speaker, recognizer: recognizer, log: log}
}

func (s *SpeechService) SynthesisSupported() bool   { return s.speaker != nil }
func (s *SpeechService) RecognitionSupported() bool { return s.recognizer != nil }

// Speak starts reading text aloud and returns immediately. It reports false
// when synthesis is unavailable.
func (s *SpeechService) Speak(text, lang string) bool {
	if s.speaker == nil {
		return false
	}
	if lang == "" {
		lang = DefaultLanguage
	}

	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	id := s.seq
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.finish(id, cancel)
		if err := s.speaker.Speak(ctx, text, lang); err != nil && !errors.Is(ctx.Err(), context.Canceled) {
			if s.log != nil {
				s.log.Warnw("speech_synthesis_failed", "lang", lang, "err", err)
			}
		}
	}()
	return true
}

func (s *SpeechService) finish(id uint64, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq == id {
		s.cancel = nil
	}
}

// Speaking reports whether synthesis is in progress.
func (s *SpeechService) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop cancels any synthesis in progress.
func (s *SpeechService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Listen captures one utterance. Without a recognizer it returns ErrNotSupported
// so callers fall back to typed input.
func (s *SpeechService) Listen(ctx context.Context, lang string) (string, error) {
	if s.recognizer == nil {
		return "", ErrNotSupported
	}
	text, err := s.recognizer.Listen(ctx, lang)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("speech_recognition_failed", "lang", lang, "err", err)
		}
		return "", err
	}
	return text, nil
}

// Close stops synthesis and waits for the worker to exit.
func (s *SpeechService) Close() {
	s.Stop()
	s.wg.Wait()
}
