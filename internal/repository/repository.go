package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

// ErrClosed is returned by store operations after Close.
var ErrClosed = errors.New("store closed")

// Snapshot is the full document at a path. Value is nil when the path is empty.
type Snapshot struct {
	Path  string
	Value json.RawMessage
}

// Store is a hierarchical JSON document store with live subscriptions.
// Subscribe delivers full-document snapshots (at-least-once, in order) until
// ctx is cancelled, then closes the channel.
type Store interface {
	Subscribe(ctx context.Context, path string) (<-chan Snapshot, error)
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Set(ctx context.Context, path string, value any) error
	Health() models.StoreHealth
	Close() error
}

// Repository bundles the raw store and the typed client bound to the device root.
type Repository struct {
	Store Store
	State *StateClient
}

func NewRepository(store Store, root string, log *logger.Logger) *Repository {
	return &Repository{
		Store: store,
		State: NewStateClient(store, root, log),
	}
}

// isNull reports whether a raw document is absent.
func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}

// cleanPath normalises "a/b/", "/a//b" to "/a/b"; the root is "/".
func cleanPath(p string) string {
	parts := splitPath(p)
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}

func splitPath(p string) []string {
	raw := strings.Split(p, "/")
	out := raw[:0]
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
