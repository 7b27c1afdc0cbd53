package constants

const (
	StatusCreated      = "created"
	StatusInitializing = "initializing"
	StatusProcessing   = "processing"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
	StatusOK           = "ok"
)

const (
	MediaKindVideo   = "video"
	MediaKindAudio   = "audio"
	MediaKindUnknown = "unknown"
)

const (
	QualityLossless = "lossless"
	QualityHigh     = "high"
	QualityStandard = "standard"
	QualityLow      = "low"
)

const (
	PerformanceTurbo  = "turbo"
	PerformanceNormal = "normal"
	PerformanceEco    = "eco"
)
