package processor

import (
	"runtime"
	"strconv"

	"media-orchestrator/internal/domain/entities"
	"media-orchestrator/internal/domain/repositories"
	"media-orchestrator/pkg/constants"
)

var x264CRF = map[string]int{
	constants.QualityHigh:     18,
	constants.QualityStandard: 23,
	constants.QualityLow:      28,
}

var vp9CRF = map[string]int{
	constants.QualityHigh:     24,
	constants.QualityStandard: 32,
	constants.QualityLow:      40,
}

var audioBitrate = map[string]string{
	constants.QualityHigh:     "256k",
	constants.QualityStandard: "192k",
	constants.QualityLow:      "128k",
}

// BuildArgs turns a request into ffmpeg arguments: concat demuxer input,
// codec selection by profile, machine-readable progress on stdout.
func BuildArgs(req repositories.EngineRequest) []string {
	args := []string{
		"-hide_banner", "-nostdin", "-y",
		"-v", "error",
		"-f", "concat", "-safe", "0",
		"-i", req.ManifestPath,
	}

	p := req.Profile
	switch {
	case p.Lossless():
		args = append(args, "-c", "copy")
	case req.HasVideo:
		args = append(args, videoArgs(p)...)
	default:
		args = append(args, audioArgs(p)...)
	}

	switch p.Format {
	case "mp4", "mov", "m4a":
		args = append(args, "-movflags", "+faststart")
	}

	args = append(args, "-progress", "pipe:1", "-nostats", req.OutputPath)
	return args
}

func threadCount(p entities.EncodingProfile) int {
	n := runtime.NumCPU()
	switch p.Performance() {
	case constants.PerformanceTurbo:
		return n
	case constants.PerformanceEco:
		return 1
	default:
		if n/2 < 1 {
			return 1
		}
		return n / 2
	}
}

func videoArgs(p entities.EncodingProfile) []string {
	threads := strconv.Itoa(threadCount(p))

	if p.Format == "webm" {
		deadline, cpuUsed := "good", "2"
		switch p.Performance() {
		case constants.PerformanceTurbo:
			deadline, cpuUsed = "realtime", "8"
		case constants.PerformanceEco:
			cpuUsed = "4"
		}
		return []string{
			"-c:v", "libvpx-vp9", "-crf", strconv.Itoa(vp9CRF[p.Quality]), "-b:v", "0",
			"-deadline", deadline, "-cpu-used", cpuUsed, "-threads", threads,
			"-c:a", "libopus", "-b:a", audioBitrate[p.Quality],
		}
	}

	preset := "medium"
	if p.Performance() == constants.PerformanceTurbo {
		preset = "veryfast"
	}
	return []string{
		"-c:v", "libx264", "-crf", strconv.Itoa(x264CRF[p.Quality]), "-preset", preset,
		"-threads", threads, "-pix_fmt", "yuv420p",
		"-c:a", "aac", "-b:a", audioBitrate[p.Quality],
	}
}

func audioCodec(format string) string {
	switch format {
	case "mp3":
		return "libmp3lame"
	case "ogg":
		return "libvorbis"
	case "opus", "webm":
		return "libopus"
	case "flac":
		return "flac"
	case "wav":
		return "pcm_s16le"
	default:
		return "aac"
	}
}

func audioArgs(p entities.EncodingProfile) []string {
	codec := audioCodec(p.Format)
	args := []string{"-vn", "-c:a", codec, "-threads", strconv.Itoa(threadCount(p))}
	switch codec {
	case "flac", "pcm_s16le":
		// lossless codecs ignore bitrate
	default:
		args = append(args, "-b:a", audioBitrate[p.Quality])
	}
	return args
}
