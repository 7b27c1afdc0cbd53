package repositories

import (
	"context"

	"media-orchestrator/internal/domain/entities"
)

// EngineRequest describes one merge invocation.
type EngineRequest struct {
	JobID         string
	ManifestPath  string
	OutputPath    string
	Profile       entities.EncodingProfile
	HasVideo      bool
	TotalDuration float64 // seconds, 0 when unknown
}

// Engine is the external transcoding/concatenation collaborator.
type Engine interface {
	// Probe inspects a stored media file.
	Probe(ctx context.Context, path string) (entities.MediaMetadata, error)
	// Start launches the invocation. The returned channel yields progress
	// events, then exactly one terminal event, then closes. An error means
	// the engine never started.
	Start(ctx context.Context, req EngineRequest) (<-chan entities.EngineEvent, error)
}
