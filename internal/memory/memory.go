// Package memory sizes the Go heap limit from the container memory limit.
//
// Image decoding in the batch tools and libvips share the container's memory
// with the Go heap. Setting GOMEMLIMIT below the container limit makes the
// collector work harder before the kernel OOM killer steps in.
package memory

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"rental-site/internal/logging"
)

// DefaultRatio is the share of the container limit given to the Go heap.
const DefaultRatio = 0.85

// Source values reported in Result.
const (
	SourceGoMemLimit  = "GOMEMLIMIT"
	SourceMemoryLimit = "MEMORY_LIMIT"
	SourceNone        = "none"
)

// Result describes what ConfigureFromEnv did.
type Result struct {
	Source         string
	ContainerLimit int64
	GoMemLimit     int64
	Ratio          float64
}

// Configured reports whether a heap limit is in effect.
func (r Result) Configured() bool {
	return r.GoMemLimit > 0
}

// ConfigureFromEnv applies a heap limit. An explicit GOMEMLIMIT wins;
// otherwise MEMORY_LIMIT (bytes, or with a Ki/Mi/Gi/K/M/G suffix) is scaled
// by MEMORY_RATIO, default DefaultRatio.
func ConfigureFromEnv() Result {
	return configure(os.Getenv, debug.SetMemoryLimit)
}

func configure(getenv func(string) string, setLimit func(int64) int64) Result {
	if env := getenv("GOMEMLIMIT"); env != "" {
		res := Result{Source: SourceGoMemLimit}
		if limit := setLimit(-1); limit > 0 && limit < math.MaxInt64 {
			res.GoMemLimit = limit
		}
		logging.Info("GOMEMLIMIT set via environment: %s", env)
		return res
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, leaving GOMEMLIMIT unset")
		return Result{Source: SourceNone}
	}

	limit, err := ParseBytes(raw)
	if err != nil || limit <= 0 {
		logging.Warn("Ignoring MEMORY_LIMIT %q: invalid size", raw)
		return Result{Source: SourceNone}
	}

	ratio := DefaultRatio
	if s := getenv("MEMORY_RATIO"); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil || r <= 0 || r > 1 {
			logging.Warn("MEMORY_RATIO %q must be in (0, 1], using %.2f", s, DefaultRatio)
		} else {
			ratio = r
		}
	}

	goLimit := int64(float64(limit) * ratio)
	setLimit(goLimit)

	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		FormatBytes(goLimit), ratio*100, FormatBytes(limit))

	return Result{
		Source:         SourceMemoryLimit,
		ContainerLimit: limit,
		GoMemLimit:     goLimit,
		Ratio:          ratio,
	}
}

var byteSuffixes = []struct {
	suffix string
	mult   int64
}{
	{"Ki", 1 << 10},
	{"Mi", 1 << 20},
	{"Gi", 1 << 30},
	{"K", 1000},
	{"M", 1000 * 1000},
	{"G", 1000 * 1000 * 1000},
}

// ParseBytes parses a plain byte count or a Kubernetes-style quantity such
// as "512Mi" or "2G".
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	for _, bs := range byteSuffixes {
		if num, ok := strings.CutSuffix(s, bs.suffix); ok {
			n, err := strconv.ParseInt(num, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid size %q: %w", s, err)
			}
			return n * bs.mult, nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n, nil
}

// FormatBytes renders b in binary units.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
