package entities

import (
	"strings"

	"media-orchestrator/pkg/constants"
	apperrors "media-orchestrator/pkg/errors"
)

var (
	videoFormats = map[string]bool{"mp4": true, "mov": true, "mkv": true, "webm": true, "avi": true}
	audioFormats = map[string]bool{"mp3": true, "wav": true, "m4a": true, "aac": true, "flac": true, "ogg": true, "opus": true}
	qualities    = map[string]bool{
		constants.QualityLossless: true,
		constants.QualityHigh:     true,
		constants.QualityStandard: true,
		constants.QualityLow:      true,
	}
)

type EncodingProfile struct {
	Format        string `json:"format"`
	Quality       string `json:"quality"`
	Turbo         bool   `json:"turbo"`
	Eco           bool   `json:"eco"`
	EcoSuppressed bool   `json:"ecoSuppressed,omitempty"`
}

// Normalize lower-cases the selectors and resolves the turbo/eco conflict:
// turbo wins and the eco request is recorded as suppressed.
func (p EncodingProfile) Normalize() EncodingProfile {
	p.Format = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(p.Format)), ".")
	p.Quality = strings.ToLower(strings.TrimSpace(p.Quality))
	if p.Quality == "" {
		p.Quality = constants.QualityStandard
	}
	if p.Turbo && p.Eco {
		p.Eco = false
		p.EcoSuppressed = true
	}
	return p
}

func (p EncodingProfile) Validate() error {
	if p.Format == "" {
		return apperrors.ErrInvalidProfile("format is required")
	}
	if !videoFormats[p.Format] && !audioFormats[p.Format] {
		return apperrors.ErrInvalidProfile("unknown output format: " + p.Format)
	}
	if !qualities[p.Quality] {
		return apperrors.ErrInvalidProfile("unknown quality: " + p.Quality)
	}
	if p.Turbo && p.Eco {
		return apperrors.ErrInvalidProfile("turbo and eco are mutually exclusive")
	}
	return nil
}

func (p EncodingProfile) Performance() string {
	switch {
	case p.Turbo:
		return constants.PerformanceTurbo
	case p.Eco:
		return constants.PerformanceEco
	default:
		return constants.PerformanceNormal
	}
}

func (p EncodingProfile) AudioOnly() bool {
	return audioFormats[p.Format]
}

func (p EncodingProfile) Lossless() bool {
	return p.Quality == constants.QualityLossless
}
