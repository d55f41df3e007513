package repository

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

var (
	errStreamClosed    = errors.New("event stream closed by server")
	errStreamCancelled = errors.New("event stream cancelled by server")
	errAuthRevoked     = errors.New("event stream auth revoked")
)

// FirebaseConfig configures the Realtime Database REST client.
type FirebaseConfig struct {
	URL     string // https://<db>.firebaseio.com
	Auth    string // database secret or ID token, optional
	Timeout time.Duration

	// Reconnection settings (exponential backoff)
	InitialRetryDelay time.Duration
	MaxRetryDelay     time.Duration
	JitterPercent     float64
}

func (c FirebaseConfig) withDefaults() FirebaseConfig {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.InitialRetryDelay <= 0 {
		c.InitialRetryDelay = time.Second
	}
	if c.MaxRetryDelay <= 0 {
		c.MaxRetryDelay = 30 * time.Second
	}
	if c.JitterPercent <= 0 {
		c.JitterPercent = 0.2
	}
	c.URL = strings.TrimRight(c.URL, "/")
	return c
}

// FirebaseStore talks to a Firebase Realtime Database over its REST API.
// Subscriptions use the streaming (text/event-stream) endpoint and keep a
// local copy of the subscribed subtree so every event yields a full document.
type FirebaseStore struct {
	cfg    FirebaseConfig
	client *http.Client
	stream *http.Client
	log    *logger.Logger

	mu          sync.RWMutex
	connected   bool
	lastErr     error
	lastEventAt time.Time
}

func NewFirebaseStore(cfg FirebaseConfig, log *logger.Logger) *FirebaseStore {
	cfg = cfg.withDefaults()
	return &FirebaseStore{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		stream: &http.Client{},
		log:    log,
	}
}

func (s *FirebaseStore) endpoint(path string) string {
	u := s.cfg.URL + cleanPath(path) + ".json"
	if s.cfg.Auth != "" {
		u += "?" + url.Values{"auth": {s.cfg.Auth}}.Encode()
	}
	return u
}

// Get performs a one-shot read.
func (s *FirebaseStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(path), nil)
	if err != nil {
		return nil, err
	}
	body, err := s.do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if isNull(body) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// Set overwrites the value at path.
func (s *FirebaseStore) Set(ctx context.Context, path string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint(path), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if _, err := s.do(req); err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}
	return nil
}

func (s *FirebaseStore) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		s.recordResult(err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.recordResult(err)
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		s.recordResult(err)
		return nil, err
	}
	s.recordResult(nil)
	return body, nil
}

// Subscribe opens a live stream on path. The stream is re-established with
// exponential backoff until ctx is cancelled; the channel is closed then.
func (s *FirebaseStore) Subscribe(ctx context.Context, path string) (<-chan Snapshot, error) {
	ch := make(chan Snapshot, watcherBuffer)
	go s.streamLoop(ctx, cleanPath(path), ch)
	return ch, nil
}

func (s *FirebaseStore) streamLoop(ctx context.Context, path string, ch chan<- Snapshot) {
	defer close(ch)

	delay := s.cfg.InitialRetryDelay
	for {
		err := s.streamOnce(ctx, path, ch, func() { delay = s.cfg.InitialRetryDelay })
		if ctx.Err() != nil {
			return
		}
		s.setConnected(false, err)
		if s.log != nil {
			s.log.Warnw("store_stream_lost", "path", path, "err", err, "retry_in", delay)
		}
		if !sleepCtx(ctx, s.jitter(delay)) {
			return
		}
		delay *= 2
		if delay > s.cfg.MaxRetryDelay {
			delay = s.cfg.MaxRetryDelay
		}
	}
}

func (s *FirebaseStore) jitter(d time.Duration) time.Duration {
	j := d.Seconds() * s.cfg.JitterPercent * (rand.Float64()*2 - 1)
	return d + time.Duration(j*float64(time.Second))
}

// streamOnce consumes one event-stream connection until it ends.
func (s *FirebaseStore) streamOnce(ctx context.Context, path string, ch chan<- Snapshot, onConnected func()) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint(path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.stream.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("stream status %d", resp.StatusCode)
	}

	s.setConnected(true, nil)
	onConnected()

	var (
		doc   any
		event string
		data  strings.Builder
	)
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return errStreamClosed
			}
			return err
		}
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
			if event == "" {
				continue
			}
			next, emit, err := s.dispatch(event, data.String(), doc)
			event = ""
			data.Reset()
			if err != nil {
				return err
			}
			doc = next
			if !emit {
				continue
			}
			snap, err := snapshotOf(path, doc)
			if err != nil {
				return err
			}
			select {
			case ch <- snap:
			case <-ctx.Done():
				return ctx.Err()
			}
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
}

type streamPayload struct {
	Path string          `json:"path"`
	Data json.RawMessage `json:"data"`
}

// dispatch applies one server event to the local document.
func (s *FirebaseStore) dispatch(event, data string, doc any) (any, bool, error) {
	s.touch()
	switch event {
	case "put", "patch":
		var p streamPayload
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return doc, false, fmt.Errorf("decode %s event: %w", event, err)
		}
		var value any
		if len(p.Data) > 0 {
			if err := json.Unmarshal(p.Data, &value); err != nil {
				return doc, false, fmt.Errorf("decode %s data: %w", event, err)
			}
		}
		if event == "put" {
			return applyPut(doc, p.Path, value), true, nil
		}
		children, ok := value.(map[string]any)
		if !ok {
			return doc, false, fmt.Errorf("patch data is not an object")
		}
		return applyPatch(doc, p.Path, children), true, nil
	case "keep-alive":
		return doc, false, nil
	case "cancel":
		return doc, false, errStreamCancelled
	case "auth_revoked":
		return doc, false, errAuthRevoked
	default:
		return doc, false, nil
	}
}

func snapshotOf(path string, doc any) (Snapshot, error) {
	if doc == nil {
		return Snapshot{Path: path}, nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Path: path, Value: b}, nil
}

// applyPut sets value at the relative path inside doc. A nil value deletes.
func applyPut(doc any, path string, value any) any {
	parts := splitPath(path)
	if len(parts) == 0 {
		return value
	}
	root, ok := doc.(map[string]any)
	if !ok {
		if value == nil {
			return doc
		}
		root = map[string]any{}
	}

	m := root
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			if value == nil {
				return root
			}
			child = map[string]any{}
			m[p] = child
		}
		m = child
	}

	last := parts[len(parts)-1]
	if value == nil {
		delete(m, last)
	} else {
		m[last] = value
	}
	if len(root) == 0 {
		return nil
	}
	return root
}

// applyPatch merges children below path.
func applyPatch(doc any, path string, children map[string]any) any {
	base := strings.TrimSuffix(path, "/")
	for k, v := range children {
		doc = applyPut(doc, base+"/"+k, v)
	}
	return doc
}

func (s *FirebaseStore) setConnected(ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = ok
	if err != nil {
		s.lastErr = err
	}
	if ok {
		s.lastErr = nil
	}
}

func (s *FirebaseStore) recordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err
}

func (s *FirebaseStore) touch() {
	s.mu.Lock()
	s.lastEventAt = time.Now().UTC()
	s.mu.Unlock()
}

func (s *FirebaseStore) Health() models.StoreHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := models.StoreHealth{
		Backend:     "firebase",
		Connected:   s.connected,
		LastEventAt: s.lastEventAt,
	}
	if s.lastErr != nil {
		h.LastError = s.lastErr.Error()
	}
	return h
}

// IsConnected reports whether at least one stream is currently established.
func (s *FirebaseStore) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *FirebaseStore) Close() error {
	s.client.CloseIdleConnections()
	s.stream.CloseIdleConnections()
	return nil
}

// sleepCtx waits d or until ctx is done; false means ctx ended.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
