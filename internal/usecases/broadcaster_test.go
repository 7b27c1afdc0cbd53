package usecases

import (
	"testing"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/infrastructure/metrics"
)

func event(jobID string, progress float64) entities.JobEvent {
	return entities.JobEvent{JobID: jobID, State: entities.JobProcessing, Progress: progress}
}

func TestPublishKeepsOrder(t *testing.T) {
	b := NewBroadcaster(16, metrics.New())
	sub := b.Subscribe("")

	for i := 1; i <= 10; i++ {
		b.Publish(event("j1", float64(i)))
	}
	for i := 1; i <= 10; i++ {
		ev := <-sub.Events()
		if ev.Progress != float64(i) {
			t.Fatalf("event %d has progress %v", i, ev.Progress)
		}
	}
}

func TestSubscriptionFilter(t *testing.T) {
	b := NewBroadcaster(4, metrics.New())
	only := b.Subscribe("j2")
	all := b.Subscribe("")

	b.Publish(event("j1", 1))
	b.Publish(event("j2", 2))

	if ev := <-only.Events(); ev.JobID != "j2" {
		t.Errorf("filtered subscriber got %s", ev.JobID)
	}
	if len(only.Events()) != 0 {
		t.Error("filtered subscriber received extra events")
	}
	if len(all.Events()) != 2 {
		t.Errorf("unfiltered subscriber has %d events", len(all.Events()))
	}
}

func TestSlowSubscriberIsPruned(t *testing.T) {
	b := NewBroadcaster(1, metrics.New())
	slow := b.Subscribe("")
	fast := b.Subscribe("")

	b.Publish(event("j1", 1))
	<-fast.Events()
	b.Publish(event("j1", 2))

	if b.Count() != 1 {
		t.Fatalf("count = %d, want 1", b.Count())
	}
	<-slow.Events()
	if _, ok := <-slow.Events(); ok {
		t.Error("pruned subscription channel should be closed")
	}
	if ev := <-fast.Events(); ev.Progress != 2 {
		t.Errorf("fast subscriber got %v", ev.Progress)
	}
}

func TestClosedSubscriptionPrunedOnPublish(t *testing.T) {
	b := NewBroadcaster(4, metrics.New())
	sub := b.Subscribe("")
	sub.Close()

	b.Publish(event("j1", 1))
	if b.Count() != 0 {
		t.Errorf("count = %d", b.Count())
	}
	b.Unsubscribe(sub)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	b := NewBroadcaster(4, metrics.New())
	b.Publish(event("j1", 1))
	if b.Count() != 0 {
		t.Errorf("count = %d", b.Count())
	}
}
