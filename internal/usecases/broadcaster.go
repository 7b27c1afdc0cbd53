package usecases

import (
	"sync"
	"sync/atomic"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/infrastructure/metrics"
)

// Subscription is one observer's event stream. JobID filters events to a
// single job when set.
type Subscription struct {
	id     uint64
	JobID  string
	ch     chan entities.JobEvent
	closed atomic.Bool
}

func (s *Subscription) Events() <-chan entities.JobEvent {
	return s.ch
}

// Close marks the subscription dead from the transport side; it is
// pruned on the next publish.
func (s *Subscription) Close() {
	s.closed.Store(true)
}

type Broadcaster interface {
	Subscribe(jobID string) *Subscription
	Unsubscribe(sub *Subscription)
	Publish(event entities.JobEvent)
	Count() int
}

type broadcaster struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	nextID  uint64
	buffer  int
	metrics *metrics.Metrics
}

func NewBroadcaster(buffer int, m *metrics.Metrics) Broadcaster {
	if buffer < 1 {
		buffer = 1
	}
	return &broadcaster{
		subs:    make(map[uint64]*Subscription),
		buffer:  buffer,
		metrics: m,
	}
}

func (b *broadcaster) Subscribe(jobID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	sub := &Subscription{
		id:    b.nextID,
		JobID: jobID,
		ch:    make(chan entities.JobEvent, b.buffer),
	}
	b.subs[sub.id] = sub
	b.metrics.Subscribers.Set(float64(len(b.subs)))
	return sub
}

func (b *broadcaster) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *broadcaster) removeLocked(sub *Subscription) {
	if _, ok := b.subs[sub.id]; !ok {
		return
	}
	delete(b.subs, sub.id)
	close(sub.ch)
	b.metrics.Subscribers.Set(float64(len(b.subs)))
}

// Publish never blocks. Holding the lock while fanning out keeps every
// subscriber's events in publish order. A closed or full subscriber is pruned.
func (b *broadcaster) Publish(event entities.JobEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		if sub.closed.Load() {
			b.removeLocked(sub)
			continue
		}
		if sub.JobID != "" && sub.JobID != event.JobID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.removeLocked(sub)
		}
	}
}

func (b *broadcaster) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
