// Command convert-images converts raster images to WebP for the gallery.
//
// Usage:
//
//	convert-images [path] [--dir static/assets/images] [--quality 80] [--replace] [--no-recursive] [--no-vips]
//
// A positional path may name a single file or a directory and takes
// precedence over --dir. Each image is written as <stem>.webp next to the
// source; with --replace the source is removed once the output is on disk.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rental-site/internal/convert"
	"rental-site/internal/logging"
	"rental-site/internal/media"
	"rental-site/internal/memory"
	"rental-site/internal/progress"

	"github.com/spf13/cobra"
)

type options struct {
	dir         string
	quality     int
	replace     bool
	noRecursive bool
	noVips      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "convert-images [path]",
		Short: "Convert images to WebP",
		Long: `convert-images converts JPEG, PNG, GIF, BMP and TIFF images to WebP.

Examples:
  convert-images                               # everything under static/assets/images
  convert-images photos/ --quality 90 --replace
  convert-images photos/car.jpg`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := opts.dir
			if len(args) == 1 {
				path = args[0]
			}
			return run(cmd, path, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dir, "dir", filepath.Join("static", "assets", "images"), "Directory containing images")
	f.IntVar(&opts.quality, "quality", convert.DefaultQuality, "WebP quality (0-100)")
	f.BoolVar(&opts.replace, "replace", false, "Delete originals after successful conversion")
	f.BoolVar(&opts.noRecursive, "no-recursive", false, "Do not process subdirectories")
	f.BoolVar(&opts.noVips, "no-vips", false, "Use the pure Go encoder instead of libvips")

	return cmd
}

func run(cmd *cobra.Command, path string, opts *options) error {
	convertOpts := convert.Options{
		Quality:   opts.quality,
		Replace:   opts.replace,
		Recursive: !opts.noRecursive,
	}
	if err := convertOpts.Validate(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path %s does not exist: %w", path, err)
	}

	if !opts.noVips {
		if err := media.InitVips(); err != nil {
			logging.Warn("libvips unavailable, using Go encoder: %v", err)
		}
		defer media.ShutdownVips()
	}

	out := cmd.OutOrStdout()

	if !info.IsDir() {
		written, err := convert.File(path, convertOpts)
		if errors.Is(err, convert.ErrAlreadyTarget) {
			fmt.Fprintf(out, "%s is already WebP, nothing to do\n", path)
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Converted %s -> %s\n", path, written)
		return nil
	}

	counter := progress.New(os.Stderr)
	report, err := convert.DirectoryWithProgress(path, convertOpts, func(done, total int) {
		counter.Update("converting", done, total)
	})
	counter.Done()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Found %d image(s): %d converted, %d skipped, %d failed\n",
		report.Found, report.Converted, report.Skipped, report.Failed)
	return nil
}

func main() {
	memory.ConfigureFromEnv()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
