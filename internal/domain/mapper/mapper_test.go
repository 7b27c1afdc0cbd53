package mapper

import (
	"testing"

	"media-orchestrator/internal/domain/entities"
)

func TestJobToRecord(t *testing.T) {
	j := entities.NewJob("job-1", []entities.Asset{{ID: "a"}, {ID: "b"}},
		entities.EncodingProfile{Format: "mp4", Quality: "high", Eco: true}, "out.mp4", "/x/job-1.mp4")
	_ = j.Transition(entities.JobInitializing)
	_ = j.Fail("Invalid data found when processing input")

	rec := JobToRecord(j.Clone())
	if rec.InputIDs != "a,b" || rec.InputCount != 2 {
		t.Fatalf("inputs = %q (%d)", rec.InputIDs, rec.InputCount)
	}
	if rec.State != "failed" || rec.ErrorDetail == "" {
		t.Fatalf("state = %s, error = %q", rec.State, rec.ErrorDetail)
	}
	if rec.Performance != "eco" {
		t.Fatalf("performance = %s", rec.Performance)
	}
	if rec.EndedAt.IsZero() || rec.DurationMs < 0 {
		t.Fatalf("ended = %v duration = %d", rec.EndedAt, rec.DurationMs)
	}
}

func TestJobToDTOHidesPaths(t *testing.T) {
	j := entities.NewJob("job-2", []entities.Asset{{ID: "a"}, {ID: "b"}},
		entities.EncodingProfile{Format: "mp3", Quality: "low"}, "mix.mp3", "/secret/job-2.mp3")
	resp := JobToDTO(j.Clone())
	if resp.State != "created" || resp.OutputFilename != "mix.mp3" {
		t.Fatalf("resp = %+v", resp)
	}
	if len(resp.InputIDs) != 2 {
		t.Fatalf("input ids = %v", resp.InputIDs)
	}
}
