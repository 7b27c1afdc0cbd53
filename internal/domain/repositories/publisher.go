package repositories

import (
	"context"

	"media-orchestrator/internal/domain/entities"
)

// EventPublisher forwards job events to an out-of-process channel.
type EventPublisher interface {
	PublishJobEvent(ctx context.Context, event entities.JobEvent) error
}
