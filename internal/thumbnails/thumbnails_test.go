package thumbnails

import (
	"context"
	"errors"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"rental-site/internal/media"

	_ "golang.org/x/image/webp"
)

// fakeFrames serves a fixed frame and records requested positions.
type fakeFrames struct {
	info     *media.VideoInfo
	probeErr error
	frameErr error
	width    int
	height   int

	mu      sync.Mutex
	seconds []float64
}

func (f *fakeFrames) Probe(_ context.Context, _ string) (*media.VideoInfo, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	info := *f.info
	return &info, nil
}

func (f *fakeFrames) FrameAt(_ context.Context, _ string, seconds float64) (image.Image, error) {
	f.mu.Lock()
	f.seconds = append(f.seconds, seconds)
	f.mu.Unlock()
	if f.frameErr != nil {
		return nil, f.frameErr
	}
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 80, B: 40, A: 255})
		}
	}
	return img, nil
}

func newFakeFrames(duration float64) *fakeFrames {
	return &fakeFrames{
		info:   &media.VideoInfo{FPS: 25, Frames: int(duration * 25), Duration: duration, Width: 320, Height: 180},
		width:  320,
		height: 180,
	}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	return Config{
		ImageDir:     filepath.Join(root, "images"),
		VideoDir:     filepath.Join(root, "videos"),
		ThumbnailDir: filepath.Join(root, "thumbnails"),
		Width:        40,
		Height:       30,
		Quality:      85,
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func decodeFile(t *testing.T, path string) (image.Image, string) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img, format
}

func TestEnsurePlaceholder(t *testing.T) {
	cfg := testConfig(t)
	g := New(cfg, nil)

	created, err := g.EnsurePlaceholder()
	if err != nil || !created {
		t.Fatalf("EnsurePlaceholder() = %v, %v", created, err)
	}

	img, format := decodeFile(t, g.PlaceholderPath())
	if format != "webp" {
		t.Errorf("format = %q", format)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("size = %v", b)
	}
	r, gr, b, _ := img.At(20, 15).RGBA()
	for _, c := range []uint32{r >> 8, gr >> 8, b >> 8} {
		if math.Abs(float64(c)-0x33) > 4 {
			t.Errorf("pixel = %d/%d/%d, want about 51", r>>8, gr>>8, b>>8)
			break
		}
	}

	created, err = g.EnsurePlaceholder()
	if err != nil || created {
		t.Errorf("second EnsurePlaceholder() = %v, %v; want false, nil", created, err)
	}
}

func TestFromImages(t *testing.T) {
	cfg := testConfig(t)
	writePNG(t, filepath.Join(cfg.ImageDir, "wide.png"), 80, 40)
	writePNG(t, filepath.Join(cfg.ImageDir, "small.png"), 10, 10)
	touch(t, filepath.Join(cfg.ImageDir, "notes.txt"))
	touch(t, filepath.Join(cfg.ImageDir, "broken.jpg"))
	writePNG(t, filepath.Join(cfg.ImageDir, "done.png"), 10, 10)
	touch(t, filepath.Join(cfg.ThumbnailDir, "done.webp"))
	touch(t, filepath.Join(cfg.ImageDir, "._wide.png"))
	touch(t, filepath.Join(cfg.ImageDir, ".cover.jpg"))

	var calls int
	g := New(cfg, nil, WithProgress(func(stage string, done, total int) {
		calls++
		if stage != "images" || total != 4 {
			t.Errorf("progress(%q, %d, %d)", stage, done, total)
		}
	}))

	report, err := g.FromImages(context.Background())
	if err != nil {
		t.Fatalf("FromImages: %v", err)
	}
	if report.Found != 4 || report.Processed != 2 || report.Skipped != 1 || report.Failed != 1 {
		t.Errorf("report = %+v", report)
	}
	if calls != 4 {
		t.Errorf("progress called %d times", calls)
	}

	tests := []struct {
		name  string
		wantW int
		wantH int
	}{
		{"wide.webp", 40, 20},
		{"small.webp", 10, 10},
	}
	for _, tt := range tests {
		img, _ := decodeFile(t, filepath.Join(cfg.ThumbnailDir, tt.name))
		if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("%s size = %dx%d, want %dx%d", tt.name, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}

	again, err := g.FromImages(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if again.Processed != 0 || again.Skipped != 3 {
		t.Errorf("rerun report = %+v", again)
	}
}

func TestFromImagesMissingDirectory(t *testing.T) {
	g := New(testConfig(t), nil)
	report, err := g.FromImages(context.Background())
	if err != nil {
		t.Fatalf("FromImages: %v", err)
	}
	if report.Found != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestFromVideos(t *testing.T) {
	tests := []struct {
		name     string
		frames   *fakeFrames
		wantTime float64
	}{
		{"one second in", newFakeFrames(10), 1.0},
		{"short clip uses midpoint", newFakeFrames(0.5), 0.25},
		{"probe failure keeps offset", &fakeFrames{probeErr: errors.New("no ffprobe"), width: 32, height: 18}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			touch(t, filepath.Join(cfg.VideoDir, "clip.mp4"))
			touch(t, filepath.Join(cfg.VideoDir, "skip.webm"))

			report, err := New(cfg, tt.frames).FromVideos(context.Background())
			if err != nil {
				t.Fatalf("FromVideos: %v", err)
			}
			if report.Found != 1 || report.Processed != 1 {
				t.Errorf("report = %+v", report)
			}
			if len(tt.frames.seconds) != 1 || tt.frames.seconds[0] != tt.wantTime {
				t.Errorf("frame requested at %v, want %v", tt.frames.seconds, tt.wantTime)
			}

			img, _ := decodeFile(t, filepath.Join(cfg.ThumbnailDir, "clip.webp"))
			if b := img.Bounds(); b.Dx() > cfg.Width || b.Dy() > cfg.Height {
				t.Errorf("thumbnail %v exceeds box", b)
			}
		})
	}
}

func TestFromVideosFrameFailure(t *testing.T) {
	cfg := testConfig(t)
	touch(t, filepath.Join(cfg.VideoDir, "a.mp4"))
	touch(t, filepath.Join(cfg.VideoDir, "b.mov"))

	frames := newFakeFrames(10)
	frames.frameErr = media.ErrNoFrame

	report, err := New(cfg, frames).FromVideos(context.Background())
	if err != nil {
		t.Fatalf("FromVideos: %v", err)
	}
	if report.Failed != 2 || report.Processed != 0 {
		t.Errorf("report = %+v", report)
	}
	if entries, _ := os.ReadDir(cfg.ThumbnailDir); len(entries) != 0 {
		t.Errorf("failed run left %d files", len(entries))
	}
}

func TestFromVideosCancelled(t *testing.T) {
	cfg := testConfig(t)
	touch(t, filepath.Join(cfg.VideoDir, "a.mp4"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(cfg, newFakeFrames(10)).FromVideos(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	writePNG(t, filepath.Join(cfg.ImageDir, "car.png"), 20, 20)
	touch(t, filepath.Join(cfg.VideoDir, "clip.mp4"))

	tests := []struct {
		name          string
		images        bool
		videos        bool
		wantProcessed int
	}{
		{"images only", true, false, 1},
		{"videos after images", true, true, 1},
	}

	g := New(cfg, newFakeFrames(10))
	for _, tt := range tests {
		report, err := g.Run(context.Background(), tt.images, tt.videos)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if report.Processed != tt.wantProcessed {
			t.Errorf("%s: report = %+v", tt.name, report)
		}
	}
	if _, err := os.Stat(g.PlaceholderPath()); err != nil {
		t.Errorf("placeholder not created: %v", err)
	}
}

func TestFrameTime(t *testing.T) {
	tests := []struct {
		name      string
		info      media.VideoInfo
		timestamp float64
		want      float64
	}{
		{"within duration", media.VideoInfo{FPS: 30, Frames: 300}, 1.0, 1.0},
		{"snapped to frame start", media.VideoInfo{FPS: 24, Frames: 240}, 1.03, 1.0},
		{"past end uses midpoint", media.VideoInfo{FPS: 10, Frames: 20}, 5.0, 1.0},
		{"unknown fps", media.VideoInfo{FPS: 0, Frames: 100}, 1.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameTime(tt.info, tt.timestamp); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("frameTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractVideoThumbnail(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	touch(t, video)

	tests := []struct {
		name       string
		output     string
		opts       func(*VideoOptions)
		wantPath   string
		wantFormat string
		wantW      int
		wantH      int
	}{
		{
			name:       "defaults next to video",
			wantPath:   filepath.Join(dir, "clip_thumbnail.webp"),
			wantFormat: "webp",
			wantW:      640,
			wantH:      360,
		},
		{
			name:       "jpg into directory",
			output:     dir,
			opts:       func(o *VideoOptions) { o.Format = media.FormatJPEG; o.Width = 160 },
			wantPath:   filepath.Join(dir, "clip_thumbnail.jpg"),
			wantFormat: "jpeg",
			wantW:      160,
			wantH:      90,
		},
		{
			name:       "png explicit file without resize",
			output:     filepath.Join(dir, "custom.png"),
			opts:       func(o *VideoOptions) { o.Format = media.FormatPNG; o.Width = 0; o.Enhance = true },
			wantPath:   filepath.Join(dir, "custom.png"),
			wantFormat: "png",
			wantW:      320,
			wantH:      180,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultVideoOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}

			got, err := New(Config{}, newFakeFrames(10)).ExtractVideoThumbnail(context.Background(), video, tt.output, opts)
			if err != nil {
				t.Fatalf("ExtractVideoThumbnail: %v", err)
			}
			if got != tt.wantPath {
				t.Errorf("path = %q, want %q", got, tt.wantPath)
			}

			img, format := decodeFile(t, got)
			if format != tt.wantFormat {
				t.Errorf("format = %q, want %q", format, tt.wantFormat)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestExtractVideoThumbnailErrors(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "clip.mp4")
	touch(t, video)

	unreadable := newFakeFrames(10)
	unreadable.probeErr = errors.New("moov atom not found")

	tests := []struct {
		name    string
		frames  *fakeFrames
		video   string
		opts    func(*VideoOptions)
		wantErr error
	}{
		{"missing video", newFakeFrames(10), filepath.Join(dir, "nope.mp4"), nil, ErrNotFound},
		{"unreadable video", unreadable, video, nil, nil},
		{"bad format", newFakeFrames(10), video, func(o *VideoOptions) { o.Format = "gif" }, media.ErrUnsupportedFormat},
		{"bad quality", newFakeFrames(10), video, func(o *VideoOptions) { o.Quality = 150 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultVideoOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			_, err := New(Config{}, tt.frames).ExtractVideoThumbnail(context.Background(), tt.video, "", opts)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessVideos(t *testing.T) {
	src := t.TempDir()
	touch(t, filepath.Join(src, "a.mp4"))
	touch(t, filepath.Join(src, "b.MKV"))
	touch(t, filepath.Join(src, "readme.txt"))
	touch(t, filepath.Join(src, "nested", "c.webm"))

	tests := []struct {
		name      string
		recursive bool
		wantFound int
	}{
		{"top level", false, 2},
		{"recursive", true, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "thumbs")
			opts := DefaultVideoOptions()
			opts.Recursive = tt.recursive
			opts.Width = 64

			report, err := New(Config{}, newFakeFrames(10)).ProcessVideos(context.Background(), src, out, opts)
			if err != nil {
				t.Fatalf("ProcessVideos: %v", err)
			}
			if report.Found != tt.wantFound || report.Processed != tt.wantFound {
				t.Errorf("report = %+v", report)
			}

			entries, err := os.ReadDir(out)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != tt.wantFound {
				t.Errorf("got %d outputs, want %d", len(entries), tt.wantFound)
			}
			if _, err := os.Stat(filepath.Join(out, "b_thumbnail.webp")); err != nil {
				t.Errorf("b_thumbnail.webp missing: %v", err)
			}
		})
	}
}

func TestProcessVideosMissingDirectory(t *testing.T) {
	_, err := New(Config{}, newFakeFrames(10)).ProcessVideos(context.Background(), filepath.Join(t.TempDir(), "absent"), "", DefaultVideoOptions())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProcessVideosSkipsHiddenFiles(t *testing.T) {
	src := t.TempDir()
	touch(t, filepath.Join(src, "a.mp4"))
	touch(t, filepath.Join(src, "._a.mp4"))

	out := t.TempDir()
	report, err := New(Config{}, newFakeFrames(10)).ProcessVideos(context.Background(), src, out, DefaultVideoOptions())
	if err != nil {
		t.Fatalf("ProcessVideos: %v", err)
	}
	if report.Found != 1 || report.Failed != 0 {
		t.Errorf("report = %+v", report)
	}
}

func TestProcessVideosUnreadableSubdirectory(t *testing.T) {
	src := t.TempDir()
	touch(t, filepath.Join(src, "a.mp4"))
	locked := filepath.Join(src, "locked")
	touch(t, filepath.Join(locked, "b.mp4"))

	if err := os.Chmod(locked, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })
	if _, err := os.ReadDir(locked); err == nil {
		t.Skip("directory permissions are not enforced for this user")
	}

	out := t.TempDir()
	report, err := New(Config{}, newFakeFrames(10)).ProcessVideos(context.Background(), src, out, DefaultVideoOptions())
	if err != nil {
		t.Fatalf("ProcessVideos: %v", err)
	}
	if report.Found != 1 || report.Processed != 1 {
		t.Errorf("report = %+v", report)
	}
	if _, err := os.Stat(filepath.Join(out, "a_thumbnail.webp")); err != nil {
		t.Errorf("a_thumbnail.webp missing: %v", err)
	}
}
