package service

import (
	"context"
	"sync"
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/models"
)

const (
	fanoutQueueSize = 64
	publishTimeout  = 10 * time.Second
)

type queuedEntry struct {
	ctx   context.Context
	entry models.IrrigationLogEntry
}

// logFanout publishes log entries to the sinks from one worker goroutine.
// Entries reach every sink in append order. A nil *logFanout is a no-op.
type logFanout struct {
	sinks []LogSink
	log   *logger.Logger

	mu     sync.Mutex
	closed bool
	queue  chan queuedEntry
	done   chan struct{}
}

func newLogFanout(sinks []LogSink, log *logger.Logger) *logFanout {
	if len(sinks) == 0 {
		return nil
	}
	f := &logFanout{
		sinks: sinks,
		log:   log,
		queue: make(chan queuedEntry, fanoutQueueSize),
		done:  make(chan struct{}),
	}
	go f.run()
	return f
}

// enqueue hands the entry to the worker. The request ctx keeps its values but
// not its cancellation. A full queue drops the entry.
func (f *logFanout) enqueue(ctx context.Context, e models.IrrigationLogEntry) {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.queue <- queuedEntry{ctx: context.WithoutCancel(ctx), entry: e}:
	default:
		if f.log != nil {
			f.log.Warnw("log_sink_queue_full", "entry_id", e.ID)
		}
	}
}

func (f *logFanout) run() {
	defer close(f.done)
	for q := range f.queue {
		for _, sink := range f.sinks {
			ctx, cancel := context.WithTimeout(q.ctx, publishTimeout)
			err := sink.PublishLog(ctx, q.entry)
			cancel()
			if err != nil && f.log != nil {
				f.log.Warnw("log_sink_failed", "err", err, "entry_id", q.entry.ID)
			}
		}
	}
}

// close drains the queue and waits for the worker.
func (f *logFanout) close() {
	if f == nil {
		return
	}
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.queue)
	}
	f.mu.Unlock()
	<-f.done
}
