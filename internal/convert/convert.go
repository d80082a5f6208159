package convert

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"rental-site/internal/filesystem"
	"rental-site/internal/logging"
	"rental-site/internal/media"
	"rental-site/internal/mediatypes"
)

var (
	// ErrNotFound reports a missing source file or directory.
	ErrNotFound = errors.New("path not found")
	// ErrAlreadyTarget reports a source that is already WebP.
	ErrAlreadyTarget = errors.New("already in target format")
	// ErrUnsupported reports a source extension outside the allowlist.
	ErrUnsupported = errors.New("unsupported source format")
)

// DefaultQuality is the WebP quality used by the CLI.
const DefaultQuality = 80

// Options controls a conversion run.
type Options struct {
	// Quality is the WebP quality, 0-100.
	Quality int
	// Replace deletes each source once its WebP output is on disk.
	Replace bool
	// Recursive descends into subdirectories.
	Recursive bool
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("quality must be between 0 and 100, got %d", o.Quality)
	}
	return nil
}

// Report summarizes a directory run.
type Report struct {
	Found     int
	Converted int
	Skipped   int
	Failed    int
	Duration  time.Duration
}

// OutputPath returns the WebP path written for src.
func OutputPath(src string) string {
	return filepath.Join(filepath.Dir(src), mediatypes.Stem(src)+mediatypes.TargetImageExt)
}

// File converts one image and returns the path of the written WebP file.
func File(path string, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	ext := mediatypes.Ext(path)
	if ext == mediatypes.TargetImageExt {
		return "", fmt.Errorf("%w: %s", ErrAlreadyTarget, path)
	}
	if !mediatypes.IsConvertible(ext) {
		return "", fmt.Errorf("%w: %s", ErrUnsupported, path)
	}

	out := OutputPath(path)
	if err := filesystem.WriteFileAtomic(out, 0o644, func(w io.Writer) error {
		return encode(w, path, opts.Quality)
	}); err != nil {
		return "", fmt.Errorf("failed to convert %s: %w", path, err)
	}

	if opts.Replace {
		if err := replaceSource(path, out); err != nil {
			return out, err
		}
	}
	return out, nil
}

// encode writes src as WebP to w.
func encode(w io.Writer, src string, quality int) error {
	if media.IsVipsAvailable() {
		data, err := media.ConvertFileWithVips(src, quality)
		if err == nil {
			_, err = io.Copy(w, bytes.NewReader(data))
			return err
		}
		logging.Debug("vips conversion failed for %s, falling back to Go decoder: %v", src, err)
	}

	img, err := media.LoadImage(src)
	if err != nil {
		return err
	}
	return media.EncodeWebP(w, img, quality)
}

// replaceSource removes src once out is confirmed to exist and be non-empty.
func replaceSource(src, out string) error {
	info, err := os.Stat(out)
	if err != nil {
		return fmt.Errorf("output %s not confirmed, keeping %s: %w", out, src, err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output %s is empty, keeping %s", out, src)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("failed to remove original %s: %w", src, err)
	}
	logging.Debug("Removed original %s", src)
	return nil
}

// Directory converts every allowlisted image under dir. Failures on
// individual files are logged and counted; they never stop the run.
func Directory(dir string, opts Options) (*Report, error) {
	return DirectoryWithProgress(dir, opts, nil)
}

// DirectoryWithProgress is Directory with a callback invoked after each
// file with the number of files handled so far and the total found.
func DirectoryWithProgress(dir string, opts Options, progress func(done, total int)) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	sources, err := findSources(dir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	report := &Report{Found: len(sources)}
	logging.Info("Found %d image(s) to convert in %s", len(sources), dir)

	for i, src := range sources {
		out, err := File(src, opts)
		switch {
		case err == nil:
			report.Converted++
			logging.Info("Converted %s -> %s", src, out)
		case errors.Is(err, ErrAlreadyTarget), errors.Is(err, ErrUnsupported):
			report.Skipped++
		default:
			report.Failed++
			logging.Error("Conversion failed: %v", err)
		}
		if progress != nil {
			progress(i+1, len(sources))
		}
	}

	report.Duration = time.Since(start)
	logging.Info("Conversion finished: %d converted, %d skipped, %d failed in %v",
		report.Converted, report.Skipped, report.Failed, report.Duration.Round(time.Millisecond))
	return report, nil
}

// findSources returns the allowlisted images under dir in walk order.
func findSources(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	var sources []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
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
		if mediatypes.IsConvertible(mediatypes.Ext(d.Name())) {
			sources = append(sources, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	return sources, nil
}
