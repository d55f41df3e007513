package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

// Child paths under the device root.
const (
	PathData         = "data"
	PathSchedule     = "schedule"
	PathRelay        = "relay"
	PathTimerSeconds = "timer_seconds"
	PathLastTimer    = "last_timer"
	PathAutoControl  = "autoControl"
)

// StateClient is the typed view of one device's documents in the store.
type StateClient struct {
	store Store
	root  string
	log   *logger.Logger
}

func NewStateClient(store Store, root string, log *logger.Logger) *StateClient {
	return &StateClient{store: store, root: cleanPath(root), log: log}
}

// Path returns the absolute store path of a child document.
func (c *StateClient) Path(child string) string {
	return strings.TrimSuffix(c.root, "/") + "/" + child
}

func (c *StateClient) Root() string { return c.root }

// Health proxies the underlying store health.
func (c *StateClient) Health() models.StoreHealth { return c.store.Health() }

// SubscribeSensors streams the device snapshot. A nil value means the
// document is absent. Malformed documents are logged and skipped.
func (c *StateClient) SubscribeSensors(ctx context.Context) (<-chan *models.SensorState, error) {
	return subscribeTyped[models.SensorState](ctx, c, PathData)
}

// SubscribeSchedule streams the stored schedule (nil when absent).
func (c *StateClient) SubscribeSchedule(ctx context.Context) (<-chan *models.Schedule, error) {
	return subscribeTyped[models.Schedule](ctx, c, PathSchedule)
}

// SubscribeRelay streams the commanded relay value. Used by the device side.
func (c *StateClient) SubscribeRelay(ctx context.Context) (<-chan models.RelayState, error) {
	src, err := c.store.Subscribe(ctx, c.Path(PathRelay))
	if err != nil {
		return nil, fmt.Errorf("subscribe relay: %w", err)
	}
	out := make(chan models.RelayState, cap(src))
	go func() {
		defer close(out)
		for snap := range src {
			if !send[models.RelayState](ctx, out, decodeRelay(snap.Value)) {
				return
			}
		}
	}()
	return out, nil
}

func subscribeTyped[T any](ctx context.Context, c *StateClient, child string) (<-chan *T, error) {
	src, err := c.store.Subscribe(ctx, c.Path(child))
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", child, err)
	}
	out := make(chan *T, cap(src))
	go func() {
		defer close(out)
		for snap := range src {
			if isNull(snap.Value) {
				if !send[*T](ctx, out, nil) {
					return
				}
				continue
			}
			var v T
			if err := json.Unmarshal(snap.Value, &v); err != nil {
				if c.log != nil {
					c.log.Warnw("store_snapshot_malformed", "path", snap.Path, "err", err)
				}
				continue
			}
			if !send[*T](ctx, out, &v) {
				return
			}
		}
	}()
	return out, nil
}

func send[T any](ctx context.Context, out chan<- T, v T) bool {
	select {
	case out <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// ReadRelay performs a fresh one-shot read of the relay value.
func (c *StateClient) ReadRelay(ctx context.Context) (models.RelayState, error) {
	raw, err := c.store.Get(ctx, c.Path(PathRelay))
	if err != nil {
		return models.RelayOff, err
	}
	return decodeRelay(raw), nil
}

func decodeRelay(raw json.RawMessage) models.RelayState {
	if isNull(raw) {
		return models.RelayOff
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return models.RelayOff
	}
	return models.ParseRelay(v)
}

func (c *StateClient) WriteRelay(ctx context.Context, state models.RelayState) error {
	return c.store.Set(ctx, c.Path(PathRelay), string(state))
}

func (c *StateClient) WriteTimerSeconds(ctx context.Context, seconds int) error {
	return c.store.Set(ctx, c.Path(PathTimerSeconds), seconds)
}

func (c *StateClient) WriteLastTimer(ctx context.Context, lt models.LastTimer) error {
	return c.store.Set(ctx, c.Path(PathLastTimer), lt)
}

func (c *StateClient) WriteAutoControl(ctx context.Context, enabled bool) error {
	return c.store.Set(ctx, c.Path(PathAutoControl), enabled)
}

// ReadSchedule returns the stored schedule or nil when none exists.
func (c *StateClient) ReadSchedule(ctx context.Context) (*models.Schedule, error) {
	raw, err := c.store.Get(ctx, c.Path(PathSchedule))
	if err != nil || isNull(raw) {
		return nil, err
	}
	var s models.Schedule
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	return &s, nil
}

func (c *StateClient) WriteSchedule(ctx context.Context, s models.Schedule) error {
	return c.store.Set(ctx, c.Path(PathSchedule), s)
}

// ReadTimerSeconds returns the requested run length, 0 when absent.
func (c *StateClient) ReadTimerSeconds(ctx context.Context) (int, error) {
	raw, err := c.store.Get(ctx, c.Path(PathTimerSeconds))
	if err != nil || isNull(raw) {
		return 0, err
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("decode timer_seconds: %w", err)
	}
	return int(n), nil
}

// ReadAutoControl returns the automatic-mode flag, false when absent.
func (c *StateClient) ReadAutoControl(ctx context.Context) (bool, error) {
	raw, err := c.store.Get(ctx, c.Path(PathAutoControl))
	if err != nil || isNull(raw) {
		return false, err
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, fmt.Errorf("decode autoControl: %w", err)
	}
	return b, nil
}

// ReadSensors returns the current device snapshot or nil when none exists.
func (c *StateClient) ReadSensors(ctx context.Context) (*models.SensorState, error) {
	raw, err := c.store.Get(ctx, c.Path(PathData))
	if err != nil || isNull(raw) {
		return nil, err
	}
	var s models.SensorState
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return &s, nil
}

// WriteSensors publishes a full device snapshot.
func (c *StateClient) WriteSensors(ctx context.Context, s models.SensorState) error {
	return c.store.Set(ctx, c.Path(PathData), s)
}
