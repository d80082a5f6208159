package gallery

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"rental-site/internal/mediatypes"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func newTestService(t *testing.T) (*Service, Config) {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	return New(cfg, WithRand(rand.New(rand.NewPCG(1, 2)))), cfg
}

func TestListImages(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.ImagesDir, "c.webp", "a.webp", "b.webp", "raw.jpg", "old.png", ".hidden.webp")
	if err := os.Mkdir(filepath.Join(cfg.ImagesDir, "dir.webp"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := svc.ListImages(1, 2)
	if err != nil {
		t.Fatalf("ListImages: %v", err)
	}
	if res.NotFound {
		t.Fatal("unexpected NotFound")
	}
	if res.Total != 3 || res.TotalPages != 2 || res.Page != 1 || res.PerPage != 2 {
		t.Errorf("total/pages/page/perPage = %d/%d/%d/%d", res.Total, res.TotalPages, res.Page, res.PerPage)
	}

	want := []Item{
		{ID: 1, Type: mediatypes.KindImage, Filename: "a.webp", Path: "/static/assets/images/a.webp", Title: "Armada Mobil CV. Enam Satu Rentalindo #1"},
		{ID: 2, Type: mediatypes.KindImage, Filename: "b.webp", Path: "/static/assets/images/b.webp", Title: "Armada Mobil CV. Enam Satu Rentalindo #2"},
	}
	if !slices.Equal(res.Items, want) {
		t.Errorf("page 1 items = %+v, want %+v", res.Items, want)
	}

	res, err = svc.ListImages(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].ID != 3 || res.Items[0].Filename != "c.webp" {
		t.Errorf("page 2 items = %+v", res.Items)
	}
}

func TestListImagesCaseInsensitiveExtension(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.ImagesDir, "A.WEBP", "b.webp")

	res, err := svc.ListImages(1, 9)
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Total)
	}
}

func TestListImagesClampsPage(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.ImagesDir, "a.webp", "b.webp", "c.webp")

	tests := []struct {
		name     string
		page     int
		wantPage int
		wantIDs  []int
	}{
		{"zero", 0, 1, []int{1, 2}},
		{"negative", -1, 1, []int{1, 2}},
		{"beyond", 50, 2, []int{3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.ListImages(tt.page, 2)
			if err != nil {
				t.Fatal(err)
			}
			if res.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", res.Page, tt.wantPage)
			}
			var ids []int
			for _, item := range res.Items {
				ids = append(ids, item.ID)
			}
			if !slices.Equal(ids, tt.wantIDs) {
				t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestListImagesMissingDirectory(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ListImages(3, 7)
	if err != nil {
		t.Fatalf("missing directory should not be an error: %v", err)
	}
	if !res.NotFound {
		t.Error("NotFound = false, want true")
	}
	if res.Total != 0 || res.TotalPages != 0 || len(res.Items) != 0 {
		t.Errorf("unexpected content: %+v", res)
	}
	if res.Page != 3 || res.PerPage != 7 {
		t.Errorf("page/perPage = %d/%d, want 3/7 echoed", res.Page, res.PerPage)
	}
	if res.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestListVideosEmptyDirectory(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.VideosDir)

	res, err := svc.ListVideos(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	if res.NotFound {
		t.Error("empty directory must not be reported as missing")
	}
	if res.Total != 0 || res.TotalPages != 0 || len(res.Items) != 0 {
		t.Errorf("unexpected content: %+v", res)
	}
}

func TestListVideosThumbnails(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.VideosDir, "tour.mp4", "drive.mp4", "clip.mov")
	touch(t, cfg.ThumbnailsDir, "tour.webp", "video-placeholder.webp")

	res, err := svc.ListVideos(1, 8)
	if err != nil {
		t.Fatal(err)
	}

	want := []Item{
		{ID: 1, Type: mediatypes.KindVideo, Filename: "drive.mp4", Path: "/static/assets/videos/drive.mp4", Title: "Video Armada #1", Thumbnail: "/static/assets/thumbnails/video-placeholder.webp"},
		{ID: 2, Type: mediatypes.KindVideo, Filename: "tour.mp4", Path: "/static/assets/videos/tour.mp4", Title: "Video Armada #2", Thumbnail: "/static/assets/thumbnails/tour.webp"},
	}
	if !slices.Equal(res.Items, want) {
		t.Errorf("items = %+v, want %+v", res.Items, want)
	}
}

func TestListVideosMissingDirectory(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ListVideos(1, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !res.NotFound {
		t.Error("NotFound = false, want true")
	}
}

func TestRandomSample(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.ImagesDir, "a.webp", "b.webp", "c.webp")
	touch(t, cfg.VideosDir, "x.mp4", "y.mp4")

	universe := map[string]bool{
		"image:a.webp": true, "image:b.webp": true, "image:c.webp": true,
		"video:x.mp4": true, "video:y.mp4": true,
	}

	for _, count := range []int{1, 3, 5, 8} {
		res, err := svc.RandomSample(count)
		if err != nil {
			t.Fatal(err)
		}
		if want := min(count, 5); len(res.Items) != want {
			t.Errorf("count=%d: got %d items, want %d", count, len(res.Items), want)
		}

		seen := map[string]bool{}
		for _, item := range res.Items {
			key := string(item.Type) + ":" + item.Filename
			if !universe[key] {
				t.Errorf("unexpected item %s", key)
			}
			if seen[key] {
				t.Errorf("duplicate item %s", key)
			}
			seen[key] = true
		}
	}
}

func TestRandomSampleNumbersPerKind(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.ImagesDir, "b.webp", "a.webp")
	touch(t, cfg.VideosDir, "z.mp4")

	res, err := svc.RandomSample(10)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range res.Items {
		switch item.Filename {
		case "a.webp":
			if item.ID != 1 {
				t.Errorf("a.webp id = %d, want 1", item.ID)
			}
		case "b.webp":
			if item.ID != 2 {
				t.Errorf("b.webp id = %d, want 2", item.ID)
			}
		case "z.mp4":
			if item.ID != 1 || item.Thumbnail == "" {
				t.Errorf("z.mp4 = %+v", item)
			}
		}
	}
}

func TestRandomSampleDeterministicWithSeed(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	touch(t, cfg.ImagesDir, "1.webp", "2.webp", "3.webp", "4.webp", "5.webp", "6.webp")

	a, err := New(cfg, WithRand(rand.New(rand.NewPCG(7, 7)))).RandomSample(6)
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(cfg, WithRand(rand.New(rand.NewPCG(7, 7)))).RandomSample(6)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(a.Items, b.Items) {
		t.Error("same seed produced different samples")
	}
}

func TestRandomSampleFloorsCount(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.ImagesDir, "a.webp", "b.webp")

	res, err := svc.RandomSample(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 {
		t.Errorf("got %d items, want 1", len(res.Items))
	}
}

func TestRandomSampleEmpty(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.VideosDir)

	res, err := svc.RandomSample(8)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Empty || len(res.Items) != 0 {
		t.Errorf("expected empty marker, got %+v", res)
	}
}

func TestStats(t *testing.T) {
	svc, cfg := newTestService(t)
	touch(t, cfg.ImagesDir, "a.webp", "b.webp", "c.jpg")
	touch(t, cfg.VideosDir, "x.mp4")
	touch(t, cfg.ThumbnailsDir, "x.webp", "video-placeholder.webp")

	stats := svc.Stats()
	if stats.Images != 2 || stats.Videos != 1 || stats.Thumbnails != 2 {
		t.Errorf("stats = %+v", stats)
	}
}
