package thumbnails

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"rental-site/internal/filesystem"
	"rental-site/internal/logging"
	"rental-site/internal/media"
	"rental-site/internal/mediatypes"

	"github.com/disintegration/imaging"
)

// ErrNotFound reports a missing source directory or video.
var ErrNotFound = errors.New("not found")

// PlaceholderColor fills the placeholder thumbnail.
var PlaceholderColor = color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}

// batchFrameOffset is where the batch flow grabs a video frame, skipping
// the black frames many clips open with.
const batchFrameOffset = 1.0

// Config describes the batch run.
type Config struct {
	ImageDir     string
	VideoDir     string
	ThumbnailDir string
	Width        int
	Height       int
	Quality      int
}

// DefaultConfig returns the layout under static/assets with 400x300 boxes.
func DefaultConfig() Config {
	return Config{
		ImageDir:     filepath.Join("static", "assets", "images"),
		VideoDir:     filepath.Join("static", "assets", "videos"),
		ThumbnailDir: filepath.Join("static", "assets", "thumbnails"),
		Width:        400,
		Height:       300,
		Quality:      85,
	}
}

// Report summarizes a batch run.
type Report struct {
	Found     int
	Processed int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

func (r *Report) add(other *Report) {
	r.Found += other.Found
	r.Processed += other.Processed
	r.Skipped += other.Skipped
	r.Failed += other.Failed
	r.Duration += other.Duration
}

// ProgressFunc is called after each file of a stage.
type ProgressFunc func(stage string, done, total int)

// Generator writes thumbnails for the configured directories.
type Generator struct {
	cfg      Config
	frames   media.FrameSource
	progress ProgressFunc
}

// Option configures a Generator.
type Option func(*Generator)

// WithProgress sets a callback reporting per-file progress.
func WithProgress(fn ProgressFunc) Option {
	return func(g *Generator) {
		g.progress = fn
	}
}

// New creates a Generator. frames may be nil when only images are processed.
func New(cfg Config, frames media.FrameSource, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, frames: frames}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// PlaceholderPath returns the path of the video placeholder.
func (g *Generator) PlaceholderPath() string {
	return filepath.Join(g.cfg.ThumbnailDir, mediatypes.PlaceholderThumbnail)
}

// EnsurePlaceholder writes the solid placeholder if it does not exist yet.
// It reports whether a file was created.
func (g *Generator) EnsurePlaceholder() (bool, error) {
	path := g.PlaceholderPath()
	if filesystem.Exists(path) {
		logging.Info("Video placeholder already exists at %s", path)
		return false, nil
	}
	if err := os.MkdirAll(g.cfg.ThumbnailDir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", g.cfg.ThumbnailDir, err)
	}

	img := imaging.New(g.cfg.Width, g.cfg.Height, PlaceholderColor)
	if err := writeImage(path, img, media.FormatWebP, g.cfg.Quality); err != nil {
		return false, err
	}
	logging.Info("Created video placeholder: %s", path)
	return true, nil
}

// FromImages writes a boxed WebP thumbnail for each top-level image in
// ImageDir.
func (g *Generator) FromImages(ctx context.Context) (*Report, error) {
	return g.run(ctx, "images", g.cfg.ImageDir, mediatypes.ThumbnailImageExtensions, g.imageThumbnail)
}

// FromVideos writes a boxed WebP still for each top-level video in VideoDir.
func (g *Generator) FromVideos(ctx context.Context) (*Report, error) {
	if g.frames == nil {
		return nil, errors.New("no frame source configured")
	}
	return g.run(ctx, "videos", g.cfg.VideoDir, mediatypes.ThumbnailVideoExtensions, g.videoThumbnail)
}

// Run generates the placeholder followed by the selected stages.
func (g *Generator) Run(ctx context.Context, images, videos bool) (*Report, error) {
	if _, err := g.EnsurePlaceholder(); err != nil {
		return nil, err
	}

	total := &Report{}
	if images {
		logging.Info("Generating image thumbnails from %s to %s", g.cfg.ImageDir, g.cfg.ThumbnailDir)
		r, err := g.FromImages(ctx)
		if err != nil {
			return total, err
		}
		total.add(r)
	}
	if videos {
		logging.Info("Generating video thumbnails from %s to %s", g.cfg.VideoDir, g.cfg.ThumbnailDir)
		r, err := g.FromVideos(ctx)
		if err != nil {
			return total, err
		}
		total.add(r)
	}
	return total, nil
}

func (g *Generator) run(ctx context.Context, stage, dir string, exts map[string]bool,
	generate func(ctx context.Context, src, dst string) error) (*Report, error) {
	start := time.Now()
	report := &Report{}

	sources, err := topLevelFiles(dir, exts)
	if errors.Is(err, ErrNotFound) {
		logging.Warn("No %s found: %v", stage, err)
		return report, nil
	}
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		logging.Info("No %s found in %s", stage, dir)
		return report, nil
	}
	if err := os.MkdirAll(g.cfg.ThumbnailDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", g.cfg.ThumbnailDir, err)
	}

	report.Found = len(sources)
	for i, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		name := filepath.Base(src)
		dst := filepath.Join(g.cfg.ThumbnailDir, mediatypes.Stem(src)+mediatypes.TargetImageExt)
		switch {
		case filesystem.Exists(dst):
			logging.Debug("Thumbnail already exists for %s, skipping", name)
			report.Skipped++
		default:
			if err := generate(ctx, src, dst); err != nil {
				logging.Error("Error generating thumbnail for %s: %v", name, err)
				report.Failed++
			} else {
				logging.Info("Generated thumbnail for %s -> %s", name, dst)
				report.Processed++
			}
		}

		if g.progress != nil {
			g.progress(stage, i+1, len(sources))
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

func (g *Generator) imageThumbnail(_ context.Context, src, dst string) error {
	img, err := media.LoadImage(src)
	if err != nil {
		return err
	}
	return writeImage(dst, imaging.Fit(img, g.cfg.Width, g.cfg.Height, imaging.Lanczos), media.FormatWebP, g.cfg.Quality)
}

func (g *Generator) videoThumbnail(ctx context.Context, src, dst string) error {
	ts := batchFrameOffset
	if info, err := g.frames.Probe(ctx, src); err != nil {
		logging.Debug("Probe failed for %s, using %.1fs: %v", src, ts, err)
	} else if info.Duration > 0 && ts > info.Duration {
		ts = info.Duration / 2
	}

	frame, err := g.frames.FrameAt(ctx, src, ts)
	if err != nil {
		return err
	}
	return writeImage(dst, imaging.Fit(frame, g.cfg.Width, g.cfg.Height, imaging.Lanczos), media.FormatWebP, g.cfg.Quality)
}

// topLevelFiles returns the sorted, non-hidden files in dir whose extension
// is in exts.
func topLevelFiles(dir string, exts map[string]bool) ([]string, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") || !exts[mediatypes.Ext(e.Name())] {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	slices.Sort(files)
	return files, nil
}

// writeImage encodes img to path through a temporary file.
func writeImage(path string, img image.Image, format media.Format, quality int) error {
	return filesystem.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return media.Encode(w, img, format, quality)
	})
}
