package entities

import "time"

// JobRecord is the persisted summary of a terminal job.
type JobRecord struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	State          string    `gorm:"type:varchar(20);not null" json:"state"`
	Format         string    `gorm:"type:varchar(16);not null" json:"format"`
	Quality        string    `gorm:"type:varchar(16);not null" json:"quality"`
	Performance    string    `gorm:"type:varchar(16);not null" json:"performance"`
	InputCount     int       `gorm:"not null" json:"inputCount"`
	InputIDs       string    `gorm:"type:text" json:"inputIds"` // comma separated
	OutputFilename string    `gorm:"type:varchar(255)" json:"outputFilename"`
	Checksum       string    `gorm:"type:varchar(64)" json:"checksum,omitempty"`
	ArchiveURL     string    `gorm:"type:text" json:"archiveUrl,omitempty"`
	ErrorDetail    string    `gorm:"type:text" json:"error,omitempty"`
	DurationMs     int64     `json:"durationMs"`
	CreatedAt      time.Time `json:"createdAt"`
	EndedAt        time.Time `json:"endedAt"`
}

func (JobRecord) TableName() string {
	return "job_records"
}
