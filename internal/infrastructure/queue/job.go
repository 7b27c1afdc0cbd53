package queue

import "context"

type JobType string

const (
	JobAssetExpiry  JobType = "asset_expiry"
	JobOutputExpiry JobType = "output_expiry"
	JobCleanup      JobType = "cleanup"
)

// Job is a unit of deferred work. Run must tolerate the resource it targets
// having already been removed.
type Job struct {
	Key  string
	Type JobType
	Run  func(ctx context.Context) error

	generation uint64
}
