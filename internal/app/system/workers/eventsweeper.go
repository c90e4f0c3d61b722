// internal/app/system/workers/eventsweeper.go
package workers

import (
	"context"
	"sync"
	"time"

	eventstore "github.com/dalemusser/campushub/internal/app/store/events"
	"github.com/dalemusser/campushub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// EventSweeper is a background worker that deactivates events once
// their date has passed. Inactive events drop out of listings and stop
// accepting RSVPs but remain readable by direct ID.
type EventSweeper struct {
	events   *eventstore.Store
	log      *zap.Logger
	interval time.Duration
	grace    time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewEventSweeper creates a sweeper that runs every interval and
// deactivates events whose date is more than grace in the past. The
// grace period keeps an event visible through its own day.
func NewEventSweeper(events *eventstore.Store, logger *zap.Logger, interval, grace time.Duration) *EventSweeper {
	return &EventSweeper{
		events:   events,
		log:      logger,
		interval: interval,
		grace:    grace,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *EventSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("event sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("grace", w.grace))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *EventSweeper) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("event sweeper stopped")
}

func (w *EventSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *EventSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
	defer cancel()

	count, err := w.events.DeactivatePast(ctx, time.Now().UTC().Add(-w.grace))
	if err != nil {
		w.log.Error("failed to deactivate past events", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("deactivated past events", zap.Int64("count", count))
	}
}
