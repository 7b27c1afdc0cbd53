package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	apperrors "media-orchestrator/pkg/errors"

	"go.uber.org/zap"
)

const stderrTailBytes = 4096

// FFmpegEngine drives the ffmpeg and ffprobe binaries.
type FFmpegEngine struct {
	ffmpegPath  string
	ffprobePath string
	logger      *zap.Logger
}

func NewFFmpegEngine(ffmpegPath, ffprobePath string, logger *zap.Logger) *FFmpegEngine {
	return &FFmpegEngine{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		logger:      logger.Named("ffmpeg"),
	}
}

var _ repositories.Engine = (*FFmpegEngine)(nil)

func (e *FFmpegEngine) Start(ctx context.Context, req repositories.EngineRequest) (<-chan entities.EngineEvent, error) {
	bin, err := exec.LookPath(e.ffmpegPath)
	if err != nil {
		return nil, apperrors.ErrEngineStart(err)
	}

	args := BuildArgs(req)
	e.logger.Debug("starting ffmpeg", zap.String("job_id", req.JobID), zap.Strings("args", args))

	cmd := exec.CommandContext(ctx, bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, apperrors.ErrEngineStart(err)
	}
	stderr := &tailBuffer{limit: stderrTailBytes}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, apperrors.ErrEngineStart(err)
	}

	events := make(chan entities.EngineEvent, 16)
	go func() {
		defer close(events)

		parseErr := ParseProgress(stdout, func(s ProgressSnapshot) {
			if s.End {
				return
			}
			pct := s.Percent(req.TotalDuration)
			if pct < 0 {
				pct = 0
			}
			events <- entities.EngineEvent{Type: entities.EngineProgress, Progress: pct, Speed: s.Speed}
		})
		if parseErr != nil {
			e.logger.Warn("progress stream error", zap.String("job_id", req.JobID), zap.Error(parseErr))
		}

		if err := cmd.Wait(); err != nil {
			detail := stderr.String()
			if detail == "" {
				detail = err.Error()
			}
			events <- entities.EngineEvent{Type: entities.EngineFailed, Detail: detail}
			return
		}
		events <- entities.EngineEvent{Type: entities.EngineCompleted}
	}()

	return events, nil
}

type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Probe returns fallback metadata together with a probe error when
// inspection fails, so callers may store the result either way.
func (e *FFmpegEngine) Probe(ctx context.Context, path string) (entities.MediaMetadata, error) {
	bin, err := exec.LookPath(e.ffprobePath)
	if err != nil {
		return entities.FallbackMetadata(), apperrors.ErrProbe(err)
	}

	cmd := exec.CommandContext(ctx, bin,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return entities.FallbackMetadata(), apperrors.ErrProbe(err)
	}
	return parseProbe(out)
}

func parseProbe(out []byte) (entities.MediaMetadata, error) {
	var po probeOutput
	if err := json.Unmarshal(out, &po); err != nil {
		return entities.FallbackMetadata(), apperrors.ErrProbe(fmt.Errorf("decode ffprobe output: %w", err))
	}

	meta := entities.FallbackMetadata()
	if d, err := strconv.ParseFloat(po.Format.Duration, 64); err == nil && d > 0 {
		meta.DurationSeconds = d
	}

	var audioCodec string
	for _, s := range po.Streams {
		switch s.CodecType {
		case "video":
			if meta.Codec == "unknown" {
				meta.Codec = s.CodecName
				if s.Width > 0 && s.Height > 0 {
					meta.Resolution = fmt.Sprintf("%dx%d", s.Width, s.Height)
				}
			}
		case "audio":
			if audioCodec == "" {
				audioCodec = s.CodecName
			}
		}
	}
	if meta.Codec == "unknown" && audioCodec != "" {
		meta.Codec = audioCodec
	}
	return meta, nil
}

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = t.buf[over:]
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(bytes.ToValidUTF8(t.buf, nil)))
}
