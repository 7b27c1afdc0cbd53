package entities

import "time"

// JobEvent is pushed to observers on every state or progress change.
type JobEvent struct {
	JobID      string    `json:"jobId"`
	State      JobState  `json:"state"`
	Progress   float64   `json:"progress"`
	Throughput string    `json:"throughput,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type EngineEventType string

const (
	EngineProgress  EngineEventType = "progress"
	EngineCompleted EngineEventType = "completed"
	EngineFailed    EngineEventType = "failed"
)

// EngineEvent is emitted by a running engine invocation. A stream carries
// zero or more progress events followed by exactly one terminal event.
type EngineEvent struct {
	Type     EngineEventType
	Progress float64 // percent, progress events only
	Speed    string
	Detail   string // failure text from the engine, verbatim
}

func (e EngineEvent) IsTerminal() bool {
	return e.Type == EngineCompleted || e.Type == EngineFailed
}
