// Command generate-thumbnails creates the gallery's thumbnail images.
//
// The root command writes the video placeholder and then boxed WebP
// thumbnails for images and/or videos:
//
//	generate-thumbnails [--images] [--videos] [--all] [--image-dir DIR] [--video-dir DIR]
//	                    [--thumbnail-dir DIR] [--width 400] [--height 300]
//
// Without a selector both images and videos are processed.
//
// The video subcommand extracts one frame per video with optional resizing
// and colour enhancement:
//
//	generate-thumbnails video [--dir DIR] [--output DIR] [--timestamp 1.0] [--quality 85]
//	                          [--format webp|jpg|png] [--width 640] [--enhance]
//	                          [--brightness 1.0] [--contrast 1.1] [--saturation 1.2] [--no-recursive]
//
// Video processing needs ffmpeg and ffprobe on PATH.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"rental-site/internal/logging"
	"rental-site/internal/media"
	"rental-site/internal/memory"
	"rental-site/internal/progress"
	"rental-site/internal/thumbnails"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	images bool
	videos bool
	all    bool
	noVips bool
	config thumbnails.Config
}

// frameSource builds the video frame source; replaced in tests.
var frameSource = func() (media.FrameSource, error) {
	if err := media.CheckFFmpeg(); err != nil {
		return nil, err
	}
	return media.NewFFmpeg(), nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{config: thumbnails.DefaultConfig()}

	cmd := &cobra.Command{
		Use:           "generate-thumbnails",
		Short:         "Generate thumbnails for gallery images and videos",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noVips {
				return
			}
			if err := media.InitVips(); err != nil {
				logging.Warn("libvips unavailable, using Go encoder: %v", err)
			}
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if !opts.noVips {
				media.ShutdownVips()
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRoot(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&opts.noVips, "no-vips", false, "Use the pure Go encoder instead of libvips")

	f := cmd.Flags()
	f.BoolVar(&opts.images, "images", false, "Generate thumbnails for images")
	f.BoolVar(&opts.videos, "videos", false, "Generate thumbnails for videos")
	f.BoolVar(&opts.all, "all", false, "Generate thumbnails for both images and videos")
	f.StringVar(&opts.config.ImageDir, "image-dir", opts.config.ImageDir, "Source directory for images")
	f.StringVar(&opts.config.VideoDir, "video-dir", opts.config.VideoDir, "Source directory for videos")
	f.StringVar(&opts.config.ThumbnailDir, "thumbnail-dir", opts.config.ThumbnailDir, "Target directory for thumbnails")
	f.IntVar(&opts.config.Width, "width", opts.config.Width, "Thumbnail width")
	f.IntVar(&opts.config.Height, "height", opts.config.Height, "Thumbnail height")

	cmd.AddCommand(newVideoCmd())
	return cmd
}

func runRoot(cmd *cobra.Command, opts *rootOptions) error {
	if opts.config.Width < 1 || opts.config.Height < 1 {
		return fmt.Errorf("width and height must be positive, got %dx%d", opts.config.Width, opts.config.Height)
	}

	images := opts.images || opts.all
	videos := opts.videos || opts.all
	if !images && !videos {
		images, videos = true, true
	}

	var frames media.FrameSource
	if videos {
		var err error
		if frames, err = frameSource(); err != nil {
			logging.Warn("Skipping video thumbnails: %v", err)
			videos = false
		}
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	counter := progress.New(os.Stderr)
	gen := thumbnails.New(opts.config, frames, thumbnails.WithProgress(counter.Update))

	report, err := gen.Run(ctx, images, videos)
	counter.Done()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Thumbnails: %d generated, %d skipped, %d failed\n",
		report.Processed, report.Skipped, report.Failed)
	return nil
}

type videoOptions struct {
	dir         string
	output      string
	format      string
	noRecursive bool
	opts        thumbnails.VideoOptions
}

func newVideoCmd() *cobra.Command {
	vo := &videoOptions{opts: thumbnails.DefaultVideoOptions()}

	cmd := &cobra.Command{
		Use:   "video",
		Short: "Extract thumbnails from video files",
		Long: `video extracts one frame per video at --timestamp (the middle of the clip
when the timestamp is past its end) and writes <name>_thumbnail.<format>.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVideo(cmd, vo)
		},
	}

	f := cmd.Flags()
	f.StringVar(&vo.dir, "dir", filepath.Join("static", "assets", "videos"), "Directory containing videos")
	f.StringVar(&vo.output, "output", filepath.Join("static", "assets", "thumbnails"), "Directory to save thumbnails")
	f.Float64Var(&vo.opts.Timestamp, "timestamp", vo.opts.Timestamp, "Time in seconds to extract frame")
	f.IntVar(&vo.opts.Quality, "quality", vo.opts.Quality, "Image quality from 0-100")
	f.StringVar(&vo.format, "format", string(vo.opts.Format), "Output format: webp, jpg, or png")
	f.IntVar(&vo.opts.Width, "width", vo.opts.Width, "Resize width in pixels, preserves aspect ratio")
	f.BoolVar(&vo.opts.Enhance, "enhance", false, "Enhance thumbnail appearance")
	f.Float64Var(&vo.opts.Enhancement.Brightness, "brightness", vo.opts.Enhancement.Brightness, "Brightness adjustment factor")
	f.Float64Var(&vo.opts.Enhancement.Contrast, "contrast", vo.opts.Enhancement.Contrast, "Contrast adjustment factor")
	f.Float64Var(&vo.opts.Enhancement.Saturation, "saturation", vo.opts.Enhancement.Saturation, "Saturation adjustment factor")
	f.BoolVar(&vo.noRecursive, "no-recursive", false, "Don't process subdirectories")

	return cmd
}

func runVideo(cmd *cobra.Command, vo *videoOptions) error {
	format, err := media.ParseFormat(vo.format)
	if err != nil {
		return err
	}
	if vo.opts.Quality < 0 || vo.opts.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", vo.opts.Quality)
	}
	vo.opts.Format = format
	vo.opts.Recursive = !vo.noRecursive

	frames, err := frameSource()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info("Generating thumbnails from videos in '%s'", vo.dir)
	logging.Info("Saving thumbnails to '%s'", vo.output)

	counter := progress.New(os.Stderr)
	gen := thumbnails.New(thumbnails.Config{}, frames, thumbnails.WithProgress(counter.Update))

	report, err := gen.ProcessVideos(ctx, vo.dir, vo.output, vo.opts)
	counter.Done()
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d of %d thumbnails (%d failed)\n",
		report.Processed, report.Found, report.Failed)
	return nil
}

func main() {
	memory.ConfigureFromEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
