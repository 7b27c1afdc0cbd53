package usecases

import (
	"context"
	"sync"
	"time"

	"media-orchestrator/internal/domain/repositories"

	"go.uber.org/zap"
)

// EventForwarder copies every broadcast event to an external publisher.
type EventForwarder struct {
	events    Broadcaster
	publisher repositories.EventPublisher
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEventForwarder(events Broadcaster, publisher repositories.EventPublisher, logger *zap.Logger) *EventForwarder {
	return &EventForwarder{
		events:    events,
		publisher: publisher,
		logger:    logger.Named("forwarder"),
	}
}

func (f *EventForwarder) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.wg.Add(1)
	go f.run(ctx)
}

func (f *EventForwarder) run(ctx context.Context) {
	defer f.wg.Done()
	for {
		sub := f.events.Subscribe("")
		if !f.forward(ctx, sub) {
			f.events.Unsubscribe(sub)
			return
		}
		// pruned for falling behind; events in between are lost
		f.logger.Warn("forwarder fell behind, resubscribing")
	}
}

// forward reports false when ctx ended and true when the subscription was
// closed by the broadcaster.
func (f *EventForwarder) forward(ctx context.Context, sub *Subscription) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-sub.Events():
			if !ok {
				return true
			}
			pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
			if err := f.publisher.PublishJobEvent(pctx, ev); err != nil {
				f.logger.Warn("event relay failed", zap.String("job_id", ev.JobID), zap.Error(err))
			}
			cancel()
		}
	}
}

func (f *EventForwarder) Stop() {
	if f.cancel == nil {
		return
	}
	f.cancel()
	f.wg.Wait()
}
