package entities

import (
	"fmt"
	"time"

	"media-orchestrator/pkg/constants"
)

type JobState string

const (
	JobCreated      JobState = constants.StatusCreated
	JobInitializing JobState = constants.StatusInitializing
	JobProcessing   JobState = constants.StatusProcessing
	JobCompleted    JobState = constants.StatusCompleted
	JobFailed       JobState = constants.StatusFailed
)

var transitions = map[JobState][]JobState{
	JobCreated:      {JobInitializing, JobFailed},
	JobInitializing: {JobProcessing, JobFailed},
	JobProcessing:   {JobCompleted, JobFailed},
}

func (s JobState) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

func (s JobState) CanTransition(to JobState) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// Job is one merge request. Inputs are a snapshot taken at submission.
type Job struct {
	ID             string          `json:"id"`
	Inputs         []Asset         `json:"inputs"`
	Profile        EncodingProfile `json:"profile"`
	OutputFilename string          `json:"outputFilename"`
	OutputPath     string          `json:"-"`
	ManifestPath   string          `json:"-"`
	State          JobState        `json:"state"`
	Progress       float64         `json:"progress"`
	Throughput     string          `json:"throughput,omitempty"`
	Error          string          `json:"error,omitempty"`
	Checksum       string          `json:"checksum,omitempty"`
	ArchiveURL     string          `json:"archiveUrl,omitempty"`
	OutputExpired  bool            `json:"outputExpired,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	StartedAt      *time.Time      `json:"startedAt,omitempty"`
	EndedAt        *time.Time      `json:"endedAt,omitempty"`
}

func NewJob(id string, inputs []Asset, profile EncodingProfile, outputFilename, outputPath string) *Job {
	snapshot := make([]Asset, len(inputs))
	copy(snapshot, inputs)
	return &Job{
		ID:             id,
		Inputs:         snapshot,
		Profile:        profile,
		OutputFilename: outputFilename,
		OutputPath:     outputPath,
		State:          JobCreated,
		CreatedAt:      time.Now(),
	}
}

func (j *Job) IsTerminal() bool {
	return j.State.IsTerminal()
}

// Transition moves the job forward; backward or skipping moves are rejected.
func (j *Job) Transition(to JobState) error {
	if !j.State.CanTransition(to) {
		return fmt.Errorf("invalid transition %s -> %s", j.State, to)
	}
	now := time.Now()
	switch to {
	case JobProcessing:
		j.StartedAt = &now
	case JobCompleted:
		j.Progress = 100
		j.EndedAt = &now
	case JobFailed:
		j.EndedAt = &now
	}
	j.State = to
	return nil
}

// Fail moves the job to failed with detail, from any non-terminal state.
func (j *Job) Fail(detail string) error {
	if err := j.Transition(JobFailed); err != nil {
		return err
	}
	j.Error = detail
	return nil
}

// SetProgress applies p only when it moves progress forward and the job is
// not terminal. It reports whether the value changed.
func (j *Job) SetProgress(p float64) bool {
	if j.IsTerminal() {
		return false
	}
	if p > 100 {
		p = 100
	}
	if p <= j.Progress {
		return false
	}
	j.Progress = p
	return true
}

func (j *Job) HasVideo() bool {
	for _, in := range j.Inputs {
		if in.IsVideo() {
			return true
		}
	}
	return false
}

func (j *Job) InputIDs() []string {
	ids := make([]string, len(j.Inputs))
	for i, in := range j.Inputs {
		ids[i] = in.ID
	}
	return ids
}

// TotalDuration sums the probed input durations; zero when unknown.
func (j *Job) TotalDuration() float64 {
	var total float64
	for _, in := range j.Inputs {
		total += in.Metadata.DurationSeconds
	}
	return total
}

func (j *Job) Clone() Job {
	c := *j
	c.Inputs = make([]Asset, len(j.Inputs))
	copy(c.Inputs, j.Inputs)
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.EndedAt != nil {
		t := *j.EndedAt
		c.EndedAt = &t
	}
	return c
}

// Event builds the broadcast payload for the job's current state.
func (j *Job) Event() JobEvent {
	return JobEvent{
		JobID:      j.ID,
		State:      j.State,
		Progress:   j.Progress,
		Throughput: j.Throughput,
		Error:      j.Error,
		Timestamp:  time.Now(),
	}
}
