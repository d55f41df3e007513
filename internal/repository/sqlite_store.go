package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"agrisense/internal/models"
)

const (
	upsertDocumentSQL = `
		INSERT INTO documents (path, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`
	deleteDocumentSQL = `DELETE FROM documents WHERE path=?`
	selectDocumentSQL = `SELECT value FROM documents WHERE path=?`

	watcherBuffer = 8
)

// SQLiteStore keeps each path as one JSON document row. Paths are leaves:
// writing /a does not change /a/b. Subscribers are notified in-process on Set.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time

	mu       sync.Mutex
	watchers map[string]map[*watcher]struct{}
	closed   bool

	healthMu    sync.RWMutex
	lastErr     error
	lastEventAt time.Time
}

type watcher struct {
	ch chan Snapshot
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:       db,
		now:      time.Now,
		watchers: make(map[string]map[*watcher]struct{}),
	}
}

// Get returns the document at path or nil when none is stored.
func (s *SQLiteStore) Get(ctx context.Context, path string) (json.RawMessage, error) {
	path = cleanPath(path)
	var value string
	err := s.db.QueryRowContext(ctx, selectDocumentSQL, path).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordResult(nil)
			return nil, nil
		}
		s.recordResult(err)
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	s.recordResult(nil)
	return json.RawMessage(value), nil
}

// Set replaces the document at path. A nil value deletes it.
func (s *SQLiteStore) Set(ctx context.Context, path string, value any) error {
	path = cleanPath(path)

	var raw json.RawMessage
	if value != nil {
		b, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", path, err)
		}
		raw = b
	}

	var err error
	if isNull(raw) {
		raw = nil
		_, err = s.db.ExecContext(ctx, deleteDocumentSQL, path)
	} else {
		_, err = s.db.ExecContext(ctx, upsertDocumentSQL, path, string(raw), s.now().UTC())
	}
	s.recordResult(err)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	s.notify(Snapshot{Path: path, Value: raw})
	return nil
}

// Subscribe delivers the current document (if any) and then every later Set.
// A slow consumer only loses intermediate snapshots, never the latest one.
func (s *SQLiteStore) Subscribe(ctx context.Context, path string) (<-chan Snapshot, error) {
	path = cleanPath(path)
	w := &watcher{ch: make(chan Snapshot, watcherBuffer)}

	// register and read under the same lock so a concurrent Set is either
	// reflected in the initial read or delivered after it
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	current, err := s.Get(ctx, path)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if s.watchers[path] == nil {
		s.watchers[path] = make(map[*watcher]struct{})
	}
	s.watchers[path][w] = struct{}{}
	if current != nil {
		offer(w.ch, Snapshot{Path: path, Value: current})
	}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.unregister(path, w)
	}()
	return w.ch, nil
}

func (s *SQLiteStore) unregister(path string, w *watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.watchers[path]
	if !ok {
		return
	}
	if _, ok := set[w]; !ok {
		return
	}
	delete(set, w)
	if len(set) == 0 {
		delete(s.watchers, path)
	}
	close(w.ch)
}

func (s *SQLiteStore) notify(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for w := range s.watchers[snap.Path] {
		offer(w.ch, snap)
	}
	s.healthMu.Lock()
	s.lastEventAt = s.now().UTC()
	s.healthMu.Unlock()
}

// offer sends without blocking; when the buffer is full the oldest pending
// snapshot is dropped.
func offer(ch chan Snapshot, snap Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func (s *SQLiteStore) recordResult(err error) {
	s.healthMu.Lock()
	s.lastErr = err
	s.healthMu.Unlock()
}

func (s *SQLiteStore) Health() models.StoreHealth {
	s.healthMu.RLock()
	defer s.healthMu.RUnlock()
	h := models.StoreHealth{
		Backend:     "sqlite",
		Connected:   s.lastErr == nil,
		LastEventAt: s.lastEventAt,
	}
	if s.lastErr != nil {
		h.LastError = s.lastErr.Error()
	}
	return h
}

// Close ends every subscription. The *sql.DB is owned by the caller.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for path, set := range s.watchers {
		for w := range set {
			close(w.ch)
		}
		delete(s.watchers, path)
	}
	return nil
}
