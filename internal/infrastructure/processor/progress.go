package processor

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

// ProgressSnapshot is one block of ffmpeg -progress output.
type ProgressSnapshot struct {
	OutTime time.Duration
	Speed   string
	End     bool
}

// Percent relates the encoded position to the expected total duration.
// It returns -1 when the total is unknown.
func (s ProgressSnapshot) Percent(total float64) float64 {
	if total <= 0 {
		return -1
	}
	pct := s.OutTime.Seconds() / total * 100
	if pct > 100 {
		pct = 100
	}
	if pct < 0 {
		pct = 0
	}
	return pct
}

// ParseProgress reads key=value lines and calls emit once per block
// (each block ends with a progress= line).
func ParseProgress(r io.Reader, emit func(ProgressSnapshot)) error {
	scanner := bufio.NewScanner(r)
	var cur ProgressSnapshot
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch key {
		case "out_time_us", "out_time_ms":
			// both keys carry microseconds
			if us, err := strconv.ParseInt(value, 10, 64); err == nil && us >= 0 {
				cur.OutTime = time.Duration(us) * time.Microsecond
			}
		case "out_time":
			if d, ok := parseClock(value); ok {
				cur.OutTime = d
			}
		case "speed":
			if value != "N/A" {
				cur.Speed = value
			}
		case "progress":
			cur.End = value == "end"
			emit(cur)
			cur.End = false
		}
	}
	return scanner.Err()
}

// parseClock parses HH:MM:SS.micro.
func parseClock(v string) (time.Duration, bool) {
	parts := strings.Split(v, ":")
	if len(parts) != 3 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	s, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, false
	}
	total := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s*float64(time.Second))
	return total, true
}
