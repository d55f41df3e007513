package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	ChartCapacity = 20
	LogCapacity   = 50

	chartLabelLayout = "15:04"
	logTimeLayout    = "1/2/2006, 3:04:05 PM"

	// slope per sample below which a series is reported as stable
	trendThreshold = 0.05
)

// SensorFeed delivers device snapshots; nil means the document is absent.
type SensorFeed interface {
	SubscribeSensors(ctx context.Context) (<-chan *models.SensorState, error)
}

// SensorReader reads the device snapshot once; nil means absent.
type SensorReader interface {
	ReadSensors(ctx context.Context) (*models.SensorState, error)
}

// LogSink receives every appended irrigation log entry.
type LogSink interface {
	PublishLog(ctx context.Context, entry models.IrrigationLogEntry) error
}

// TelemetryAggregator owns the cached sensor snapshot, the rolling chart and
// the irrigation log. It is the single writer of that state.
type TelemetryAggregator struct {
	mu    sync.RWMutex
	state *models.SensorState
	chart *RingBuffer[models.ChartPoint]
	logs  *RingBuffer[models.IrrigationLogEntry]
	now   func() time.Time
	newID func() string
	sinks *logFanout
	stats *Metrics
	log   *logger.Logger
}

func NewTelemetryAggregator(metrics *Metrics, log *logger.Logger, sinks ...LogSink) *TelemetryAggregator {
	return &TelemetryAggregator{
		chart: NewRingBuffer[models.ChartPoint](ChartCapacity),
		logs:  NewRingBuffer[models.IrrigationLogEntry](LogCapacity),
		now:   time.Now,
		newID: newEntryID,
		sinks: newLogFanout(sinks, log),
		stats: metrics,
		log:   log,
	}
}

// newEntryID returns a time-ordered unique id.
func newEntryID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Run consumes the sensor feed until ctx ends.
func (a *TelemetryAggregator) Run(ctx context.Context, feed SensorFeed) error {
	ch, err := feed.SubscribeSensors(ctx)
	if err != nil {
		return fmt.Errorf("subscribe sensors: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case s, ok := <-ch:
			if !ok {
				return nil
			}
			a.OnSensorSnapshot(s)
		}
	}
}

// OnSensorSnapshot replaces the cached state and appends a chart point.
// An absent document is ignored.
func (a *TelemetryAggregator) OnSensorSnapshot(s *models.SensorState) {
	if s == nil {
		return
	}
	snapshot := *s
	point := models.ChartPoint{
		Time:        a.now().Format(chartLabelLayout),
		Temperature: copyFloat(s.Temperature),
		Humidity:    copyFloat(s.Humidity),
		Soil:        copyFloat(s.SoilPercent),
	}

	a.mu.Lock()
	a.state = &snapshot
	a.chart.Push(point)
	a.mu.Unlock()

	a.stats.observeSensors(snapshot)
}

// AppendLog records a successfully issued command, newest first, and queues it
// for the configured sinks. It does not wait for delivery.
func (a *TelemetryAggregator) AppendLog(ctx context.Context, action models.LogAction, mode models.LogMode, duration int) models.IrrigationLogEntry {
	entry := models.IrrigationLogEntry{
		ID:        a.newID(),
		Timestamp: a.now().Format(logTimeLayout),
		Action:    action,
		Duration:  duration,
		Mode:      mode,
	}

	a.mu.Lock()
	a.logs.Push(entry)
	a.mu.Unlock()

	a.stats.relayCommand(action, mode)
	a.sinks.enqueue(ctx, entry)
	return entry
}

// Prime seeds the cached snapshot once, for callers that do not Run the feed.
func (a *TelemetryAggregator) Prime(ctx context.Context, reader SensorReader) error {
	s, err := reader.ReadSensors(ctx)
	if err != nil {
		return fmt.Errorf("read sensors: %w", err)
	}
	a.OnSensorSnapshot(s)
	return nil
}

// Close delivers the queued log entries and stops the sink worker. Entries
// appended afterwards are kept in the log but not published.
func (a *TelemetryAggregator) Close() {
	a.sinks.close()
}

// Sensors returns a copy of the cached snapshot, nil before the first one.
func (a *TelemetryAggregator) Sensors() *models.SensorState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.state == nil {
		return nil
	}
	s := *a.state
	return &s
}

// AutoControl reports the device's automatic-mode flag from the last snapshot.
func (a *TelemetryAggregator) AutoControl() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state != nil && a.state.AutoControl()
}

// Chart returns the retained points oldest first.
func (a *TelemetryAggregator) Chart() []models.ChartPoint {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.chart.Oldest()
}

// Logs returns the retained entries newest first.
func (a *TelemetryAggregator) Logs() []models.IrrigationLogEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.logs.Newest()
}

// ChartStats summarises each series over the chart window, skipping absent samples.
func (a *TelemetryAggregator) ChartStats() models.ChartStats {
	points := a.Chart()
	pick := func(get func(models.ChartPoint) *float64) *models.SeriesStats {
		var xs, ys []float64
		for i, p := range points {
			if v := get(p); v != nil {
				xs = append(xs, float64(i))
				ys = append(ys, *v)
			}
		}
		return seriesStats(xs, ys)
	}
	return models.ChartStats{
		Temperature: pick(func(p models.ChartPoint) *float64 { return p.Temperature }),
		Humidity:    pick(func(p models.ChartPoint) *float64 { return p.Humidity }),
		Soil:        pick(func(p models.ChartPoint) *float64 { return p.Soil }),
	}
}

func seriesStats(xs, ys []float64) *models.SeriesStats {
	if len(ys) == 0 {
		return nil
	}
	mean, std := stat.MeanStdDev(ys, nil)
	if math.IsNaN(std) {
		std = 0
	}
	out := &models.SeriesStats{
		Samples: len(ys),
		Mean:    mean,
		Min:     floats.Min(ys),
		Max:     floats.Max(ys),
		StdDev:  std,
		Trend:   "stable",
	}
	if len(ys) >= 2 {
		_, slope := stat.LinearRegression(xs, ys, nil, false)
		if !math.IsNaN(slope) {
			out.Slope = slope
		}
	}
	switch {
	case out.Slope > trendThreshold:
		out.Trend = "up"
	case out.Slope < -trendThreshold:
		out.Trend = "down"
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
