package mapper

import (
	"media-orchestrator/internal/domain/dto"
	"media-orchestrator/internal/domain/entities"
)

func AssetToDTO(a entities.Asset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:           a.ID,
		OriginalName: a.OriginalName,
		Size:         a.Size,
		MediaKind:    a.MediaKind,
		Metadata: dto.MetadataDTO{
			DurationSeconds: a.Metadata.DurationSeconds,
			Resolution:      a.Metadata.Resolution,
			Codec:           a.Metadata.Codec,
		},
		ExpiresAt: a.ExpiresAt,
	}
}

func AssetsToDTO(assets []entities.Asset) []dto.AssetResponse {
	out := make([]dto.AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, AssetToDTO(a))
	}
	return out
}

func ProfileFromDTO(p dto.ProfileDTO) entities.EncodingProfile {
	return entities.EncodingProfile{
		Format:  p.Format,
		Quality: p.Quality,
		Turbo:   p.Turbo,
		Eco:     p.Eco,
	}
}

func JobToDTO(j entities.Job) dto.JobResponse {
	return dto.JobResponse{
		ID:         j.ID,
		State:      string(j.State),
		Progress:   j.Progress,
		Throughput: j.Throughput,
		Error:      j.Error,
		InputIDs:   j.InputIDs(),
		Profile: dto.ProfileDTO{
			Format:  j.Profile.Format,
			Quality: j.Profile.Quality,
			Turbo:   j.Profile.Turbo,
			Eco:     j.Profile.Eco,
		},
		OutputFilename: j.OutputFilename,
		Checksum:       j.Checksum,
		ArchiveURL:     j.ArchiveURL,
		OutputExpired:  j.OutputExpired,
		CreatedAt:      j.CreatedAt,
		StartedAt:      j.StartedAt,
		EndedAt:        j.EndedAt,
	}
}

func JobsToDTO(jobs []entities.Job) []dto.JobResponse {
	out := make([]dto.JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, JobToDTO(j))
	}
	return out
}

// JobToRecord summarises a terminal job for the history table.
func JobToRecord(j entities.Job) *entities.JobRecord {
	rec := &entities.JobRecord{
		ID:             j.ID,
		State:          string(j.State),
		Format:         j.Profile.Format,
		Quality:        j.Profile.Quality,
		Performance:    j.Profile.Performance(),
		InputCount:     len(j.Inputs),
		OutputFilename: j.OutputFilename,
		Checksum:       j.Checksum,
		ArchiveURL:     j.ArchiveURL,
		ErrorDetail:    j.Error,
		CreatedAt:      j.CreatedAt,
	}
	for i, id := range j.InputIDs() {
		if i > 0 {
			rec.InputIDs += ","
		}
		rec.InputIDs += id
	}
	if j.EndedAt != nil {
		rec.EndedAt = *j.EndedAt
		rec.DurationMs = j.EndedAt.Sub(j.CreatedAt).Milliseconds()
	}
	return rec
}
