package thumbnails

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rental-site/internal/logging"
	"rental-site/internal/media"
	"rental-site/internal/mediatypes"

	"github.com/disintegration/imaging"
)

// VideoOptions controls ExtractVideoThumbnail and ProcessVideos.
type VideoOptions struct {
	// Timestamp in seconds; past the end of the video the midpoint is used.
	Timestamp float64
	Quality   int
	Format    media.Format
	// Width resizes the frame preserving aspect ratio; 0 keeps the source size.
	Width       int
	Enhance     bool
	Enhancement media.Enhancement
	Recursive   bool
}

// DefaultVideoOptions returns the CLI defaults.
func DefaultVideoOptions() VideoOptions {
	return VideoOptions{
		Timestamp: 1.0,
		Quality:   85,
		Format:    media.FormatWebP,
		Width:     640,
		Enhancement: media.Enhancement{
			Brightness: 1.0,
			Contrast:   1.1,
			Saturation: 1.2,
		},
		Recursive: true,
	}
}

// VideoThumbnailName returns <stem>_thumbnail.<format> for video.
func VideoThumbnailName(video string, format media.Format) string {
	return mediatypes.Stem(video) + "_thumbnail" + format.Ext()
}

// ExtractVideoThumbnail writes one frame of video to output and returns the
// written path. An empty output places the thumbnail next to the video; an
// existing directory receives <stem>_thumbnail.<format>.
func (g *Generator) ExtractVideoThumbnail(ctx context.Context, video, output string, opts VideoOptions) (string, error) {
	if g.frames == nil {
		return "", errors.New("no frame source configured")
	}
	if opts.Quality < 0 || opts.Quality > 100 {
		return "", fmt.Errorf("quality must be between 0 and 100, got %d", opts.Quality)
	}
	if _, err := os.Stat(video); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: video %s", ErrNotFound, video)
		}
		return "", err
	}

	switch info, err := os.Stat(output); {
	case output == "":
		output = filepath.Join(filepath.Dir(video), VideoThumbnailName(video, opts.Format))
	case err == nil && info.IsDir():
		output = filepath.Join(output, VideoThumbnailName(video, opts.Format))
	}

	info, err := g.frames.Probe(ctx, video)
	if err != nil {
		return "", fmt.Errorf("could not open video %s: %w", video, err)
	}

	seconds := frameTime(*info, opts.Timestamp)
	frame, err := g.frames.FrameAt(ctx, video, seconds)
	if err != nil {
		return "", fmt.Errorf("could not read frame at %.2fs from %s: %w", seconds, video, err)
	}

	img := imaging.Clone(frame)
	if opts.Width > 0 {
		img = resizeToWidth(img, opts.Width)
	}
	if opts.Enhance {
		img = media.Enhance(img, opts.Enhancement)
	}

	if err := writeImage(output, img, opts.Format, opts.Quality); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", output, err)
	}
	logging.Info("Thumbnail saved to %s", output)
	return output, nil
}

// frameTime picks the position of the requested frame. A timestamp past the
// frame-derived duration falls back to the midpoint, and the result is
// snapped to the start of frame int(ts*fps).
func frameTime(info media.VideoInfo, timestamp float64) float64 {
	duration := info.FrameDuration()
	if timestamp > duration {
		logging.Warn("Timestamp %.2fs exceeds video duration %.2fs, using middle frame", timestamp, duration)
		timestamp = duration / 2
	}
	if info.FPS <= 0 {
		return timestamp
	}
	frame := int(timestamp * info.FPS)
	return float64(frame) / info.FPS
}

// resizeToWidth scales img to width, deriving the height from the aspect
// ratio.
func resizeToWidth(img *image.NRGBA, width int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return img
	}
	height := max(width*b.Dy()/b.Dx(), 1)
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// ProcessVideos extracts a thumbnail for every video under dir into outDir,
// or next to each video when outDir is empty. Subdirectories are flattened.
func (g *Generator) ProcessVideos(ctx context.Context, dir, outDir string, opts VideoOptions) (*Report, error) {
	start := time.Now()

	videos, err := findVideos(dir, opts.Recursive)
	if err != nil {
		return nil, err
	}
	report := &Report{Found: len(videos)}
	if len(videos) == 0 {
		logging.Info("No videos found in %s", dir)
		return report, nil
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", outDir, err)
		}
	}

	logging.Info("Found %d videos to process", len(videos))
	for i, video := range videos {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		output := ""
		if outDir != "" {
			output = filepath.Join(outDir, VideoThumbnailName(video, opts.Format))
		}
		if _, err := g.ExtractVideoThumbnail(ctx, video, output, opts); err != nil {
			logging.Error("Error processing %s: %v", video, err)
			report.Failed++
		} else {
			report.Processed++
		}

		if g.progress != nil {
			g.progress("videos", i+1, len(videos))
		}
	}

	report.Duration = time.Since(start)
	logging.Info("Processing complete. Generated %d thumbnails.", report.Processed)
	return report, nil
}

func findVideos(dir string, recursive bool) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s", ErrNotFound, dir)
		}
		return nil, err
	}

	var videos []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			logging.Warn("Skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasPrefix(d.Name(), ".") && mediatypes.VideoExtensions[mediatypes.Ext(d.Name())] {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return videos, nil
}
