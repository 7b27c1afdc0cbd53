package dto

import (
	"time"

	"media-orchestrator/internal/domain/entities"
)

type ProfileDTO struct {
	Format  string `json:"format"`
	Quality string `json:"quality"`
	Turbo   bool   `json:"turbo"`
	Eco     bool   `json:"eco"`
}

type SubmitJobRequest struct {
	AssetIDs   []string   `json:"assetIds"`
	Profile    ProfileDTO `json:"profile"`
	OutputName string     `json:"outputName,omitempty"`
}

type SubmitJobResponse struct {
	JobID         string `json:"jobId"`
	EcoSuppressed bool   `json:"ecoSuppressed,omitempty"`
}

type JobResponse struct {
	ID             string     `json:"id"`
	State          string     `json:"state"`
	Progress       float64    `json:"progress"`
	Throughput     string     `json:"throughput,omitempty"`
	Error          string     `json:"error,omitempty"`
	InputIDs       []string   `json:"inputIds"`
	Profile        ProfileDTO `json:"profile"`
	OutputFilename string     `json:"outputFilename"`
	Checksum       string     `json:"checksum,omitempty"`
	ArchiveURL     string     `json:"archiveUrl,omitempty"`
	OutputExpired  bool       `json:"outputExpired,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	EndedAt        *time.Time `json:"endedAt,omitempty"`
}

type JobListResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type StatusResponse struct {
	Status           string  `json:"status"`
	ActiveJobs       int     `json:"activeJobs"`
	TotalJobs        int     `json:"totalJobs"`
	RegisteredAssets int     `json:"registeredAssets"`
	Subscribers      int     `json:"subscribers"`
	PendingTimers    int     `json:"pendingTimers"`
	UptimeSeconds    float64 `json:"uptimeSeconds"`
}

type JobHistoryResponse struct {
	Jobs []entities.JobRecord `json:"jobs"`
}

type SweepResponse struct {
	Removed int `json:"removed"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
