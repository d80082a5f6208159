package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// VideoInfo is the subset of ffprobe output needed to pick a frame.
type VideoInfo struct {
	FPS      float64
	Frames   int
	Duration float64 // container duration in seconds
	Width    int
	Height   int
}

// FrameDuration returns Frames/FPS, or 0 when the frame rate is unknown.
func (v VideoInfo) FrameDuration() float64 {
	if v.FPS <= 0 {
		return 0
	}
	return float64(v.Frames) / v.FPS
}

type ffprobeOutput struct {
	Streams []struct {
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		RFrameRate string `json:"r_frame_rate"`
		NbFrames   string `json:"nb_frames"`
		Duration   string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func probeVideo(ctx context.Context, ffprobe, path string) (*VideoInfo, error) {
	cmd := exec.CommandContext(ctx, ffprobe,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate,nb_frames,duration:format=duration",
		"-print_format", "json",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe error: %w - %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseProbeOutput(stdout.Bytes())
}

func parseProbeOutput(data []byte) (*VideoInfo, error) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return nil, fmt.Errorf("no video stream found")
	}

	stream := out.Streams[0]
	info := &VideoInfo{
		FPS:    parseFrameRate(stream.RFrameRate),
		Width:  stream.Width,
		Height: stream.Height,
	}

	info.Duration, _ = strconv.ParseFloat(out.Format.Duration, 64)
	if info.Duration == 0 {
		info.Duration, _ = strconv.ParseFloat(stream.Duration, 64)
	}

	// Matroska and WebM containers usually omit nb_frames
	if n, err := strconv.Atoi(stream.NbFrames); err == nil {
		info.Frames = n
	} else if info.FPS > 0 {
		info.Frames = int(info.Duration * info.FPS)
	}

	return info, nil
}

// parseFrameRate parses ffprobe's "num/den" rate. Malformed or zero
// denominators yield 0.
func parseFrameRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}
