package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"rental-site/internal/logging"

	"github.com/disintegration/imaging"
)

// ErrNoFrame is returned when a video yields no decodable frame at the
// requested position.
var ErrNoFrame = errors.New("no frame decoded")

// FrameSource probes videos and decodes single frames from them.
type FrameSource interface {
	Probe(ctx context.Context, path string) (*VideoInfo, error)
	// FrameAt decodes the first frame at or after seconds.
	FrameAt(ctx context.Context, path string, seconds float64) (image.Image, error)
}

// FFmpeg is the FrameSource backed by the ffprobe and ffmpeg binaries.
type FFmpeg struct {
	FFmpegPath  string
	FFprobePath string
	// TempDir holds intermediate frame files; empty means os.TempDir().
	TempDir string
}

// NewFFmpeg returns an FFmpeg source using binaries found on PATH.
func NewFFmpeg() *FFmpeg {
	return &FFmpeg{FFmpegPath: "ffmpeg", FFprobePath: "ffprobe"}
}

// CheckFFmpeg reports whether both binaries can be found.
func CheckFFmpeg() error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found: %w", bin, err)
		}
	}
	return nil
}

// Probe runs ffprobe on path.
func (f *FFmpeg) Probe(ctx context.Context, path string) (*VideoInfo, error) {
	return probeVideo(ctx, f.FFprobePath, path)
}

// FrameAt extracts one frame to a temporary PNG and decodes it. The
// temporary file is removed on every path.
func (f *FFmpeg) FrameAt(ctx context.Context, path string, seconds float64) (image.Image, error) {
	tmp, err := os.CreateTemp(f.TempDir, "frame-*.png")
	if err != nil {
		return nil, fmt.Errorf("create frame file: %w", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Close()
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			logging.Warn("failed to remove frame file %s: %v", tmpName, err)
		}
	}()

	cmd := exec.CommandContext(ctx, f.FFmpegPath,
		"-v", "error",
		"-y",
		"-ss", strconv.FormatFloat(seconds, 'f', 3, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2",
		"-vcodec", "png",
		tmpName,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.Debug("Extracting frame at %.3fs from %s", seconds, path)
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w - %s", err, strings.TrimSpace(stderr.String()))
	}

	if fi, err := os.Stat(tmpName); err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("%w: %s at %.3fs", ErrNoFrame, path, seconds)
	}

	img, err := imaging.Open(tmpName)
	if err != nil {
		return nil, fmt.Errorf("failed to decode extracted frame: %w", err)
	}
	return img, nil
}
