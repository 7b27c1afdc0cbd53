package entities

import (
	"testing"
	"time"

	"media-orchestrator/pkg/constants"
	apperrors "media-orchestrator/pkg/errors"
)

func newTestJob() *Job {
	inputs := []Asset{
		{ID: "a", MediaKind: constants.MediaKindAudio, Metadata: MediaMetadata{DurationSeconds: 10}},
		{ID: "b", MediaKind: constants.MediaKindVideo, Metadata: MediaMetadata{DurationSeconds: 5}},
	}
	return NewJob("job-1", inputs, EncodingProfile{Format: "mp4", Quality: "high"}, "out.mp4", "/tmp/job-1.mp4")
}

func TestJobTransitions(t *testing.T) {
	j := newTestJob()
	if j.State != JobCreated {
		t.Fatalf("initial state = %s", j.State)
	}

	if err := j.Transition(JobCompleted); err == nil {
		t.Fatal("created -> completed must be rejected")
	}
	for _, s := range []JobState{JobInitializing, JobProcessing, JobCompleted} {
		if err := j.Transition(s); err != nil {
			t.Fatalf("transition to %s: %v", s, err)
		}
	}
	if j.Progress != 100 {
		t.Errorf("completed job progress = %v, want 100", j.Progress)
	}
	if j.StartedAt == nil || j.EndedAt == nil {
		t.Error("timestamps not set")
	}
	if err := j.Transition(JobProcessing); err == nil {
		t.Fatal("terminal job must not move")
	}
	if err := j.Fail("late"); err == nil {
		t.Fatal("completed job must not fail")
	}
}

func TestJobFail(t *testing.T) {
	j := newTestJob()
	_ = j.Transition(JobInitializing)
	if err := j.Fail("exec: \"ffmpeg\": executable file not found"); err != nil {
		t.Fatal(err)
	}
	if j.State != JobFailed || j.Error == "" {
		t.Fatalf("state=%s error=%q", j.State, j.Error)
	}
}

func TestJobProgressMonotonic(t *testing.T) {
	j := newTestJob()
	_ = j.Transition(JobInitializing)
	_ = j.Transition(JobProcessing)

	steps := []struct {
		in      float64
		changed bool
		want    float64
	}{
		{10, true, 10},
		{5, false, 10},
		{10, false, 10},
		{55.5, true, 55.5},
		{140, true, 100},
	}
	for _, s := range steps {
		if got := j.SetProgress(s.in); got != s.changed {
			t.Errorf("SetProgress(%v) changed = %v, want %v", s.in, got, s.changed)
		}
		if j.Progress != s.want {
			t.Errorf("progress = %v, want %v", j.Progress, s.want)
		}
	}

	j2 := newTestJob()
	_ = j2.Transition(JobInitializing)
	_ = j2.Fail("boom")
	if j2.SetProgress(50) {
		t.Error("terminal job progress must be frozen")
	}
}

func TestJobSnapshotIsolation(t *testing.T) {
	inputs := []Asset{{ID: "a"}, {ID: "b"}}
	j := NewJob("j", inputs, EncodingProfile{}, "o", "/o")
	inputs[0].ID = "mutated"
	if j.Inputs[0].ID != "a" {
		t.Fatal("job inputs must be a snapshot")
	}

	c := j.Clone()
	c.Inputs[1].ID = "changed"
	if j.Inputs[1].ID != "b" {
		t.Fatal("clone must not share inputs")
	}
}

func TestJobHelpers(t *testing.T) {
	j := newTestJob()
	if !j.HasVideo() {
		t.Error("expected video input")
	}
	if d := j.TotalDuration(); d != 15 {
		t.Errorf("TotalDuration = %v", d)
	}
	if ids := j.InputIDs(); len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("InputIDs = %v", ids)
	}
}

func TestProfileNormalize(t *testing.T) {
	p := EncodingProfile{Format: ".MP4", Turbo: true, Eco: true}.Normalize()
	if p.Format != "mp4" || p.Quality != constants.QualityStandard {
		t.Fatalf("normalized = %+v", p)
	}
	if !p.Turbo || p.Eco || !p.EcoSuppressed {
		t.Fatalf("turbo must win over eco: %+v", p)
	}
	if p.Performance() != constants.PerformanceTurbo {
		t.Errorf("performance = %s", p.Performance())
	}
	if err := p.Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name string
		p    EncodingProfile
		ok   bool
	}{
		{"video", EncodingProfile{Format: "webm", Quality: "low"}, true},
		{"audio", EncodingProfile{Format: "mp3", Quality: "lossless"}, true},
		{"missing format", EncodingProfile{Quality: "high"}, false},
		{"unknown format", EncodingProfile{Format: "gif", Quality: "high"}, false},
		{"unknown quality", EncodingProfile{Format: "mp4", Quality: "ultra"}, false},
	}
	for _, tt := range tests {
		err := tt.p.Validate()
		if (err == nil) != tt.ok {
			t.Errorf("%s: err = %v", tt.name, err)
		}
		if err != nil && !apperrors.HasCode(err, apperrors.CodeInvalidProfile) {
			t.Errorf("%s: wrong code: %v", tt.name, err)
		}
	}
}

func TestAssetExpired(t *testing.T) {
	now := time.Now()
	a := Asset{ExpiresAt: now.Add(-time.Second)}
	if !a.Expired(now) {
		t.Error("expected expired")
	}
	a.Refs = 1
	if a.Expired(now) {
		t.Error("referenced asset never expires")
	}
	if (Asset{}).Expired(now) {
		t.Error("zero expiry never expires")
	}
}
