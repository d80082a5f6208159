package gallery

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"rental-site/internal/filesystem"
	"rental-site/internal/logging"
	"rental-site/internal/mediatypes"
	"rental-site/internal/metrics"
)

// ErrNotFound reports that a media directory does not exist.
var ErrNotFound = errors.New("directory not found")

// Config locates the media directories and describes how items are
// presented.
type Config struct {
	ImagesDir     string
	VideosDir     string
	ThumbnailsDir string

	// Public URL prefixes, without trailing slash.
	ImagesURL     string
	VideosURL     string
	ThumbnailsURL string

	ImageExt        string
	VideoExt        string
	ThumbnailExt    string
	PlaceholderName string

	// Title formats take the item id.
	ImageTitleFormat string
	VideoTitleFormat string

	Retry filesystem.RetryConfig
}

// DefaultConfig returns the layout served under /static for staticDir.
func DefaultConfig(staticDir string) Config {
	return Config{
		ImagesDir:        filepath.Join(staticDir, "assets", "images"),
		VideosDir:        filepath.Join(staticDir, "assets", "videos"),
		ThumbnailsDir:    filepath.Join(staticDir, "assets", "thumbnails"),
		ImagesURL:        "/static/assets/images",
		VideosURL:        "/static/assets/videos",
		ThumbnailsURL:    "/static/assets/thumbnails",
		ImageExt:         mediatypes.TargetImageExt,
		VideoExt:         mediatypes.TargetVideoExt,
		ThumbnailExt:     mediatypes.TargetImageExt,
		PlaceholderName:  mediatypes.PlaceholderThumbnail,
		ImageTitleFormat: "Armada Mobil CV. Enam Satu Rentalindo #%d",
		VideoTitleFormat: "Video Armada #%d",
		Retry:            filesystem.DefaultRetryConfig(),
	}
}

// Item is one listed image or video.
type Item struct {
	ID        int             `json:"id"`
	Type      mediatypes.Kind `json:"type"`
	Filename  string          `json:"filename"`
	Path      string          `json:"path"`
	Title     string          `json:"title"`
	Thumbnail string          `json:"thumbnail,omitempty"`
}

// PageResult is one page of a listing.
type PageResult struct {
	Items      []Item
	Total      int
	TotalPages int
	Page       int
	PerPage    int
	// NotFound is set when the source directory does not exist. Page and
	// PerPage then echo the request unchanged.
	NotFound bool
}

// SampleResult is a random selection across images and videos.
type SampleResult struct {
	Items []Item
	// Empty is set when neither directory yielded any file.
	Empty bool
}

// Service lists gallery media from the filesystem.
type Service struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithRand sets the random source used by RandomSample.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = r
	}
}

// New creates a Service for cfg.
func New(cfg Config, opts ...Option) *Service {
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		now := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(now, now>>1|1))
	}
	return s
}

// Config returns the service configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// ListImages returns one page of images.
func (s *Service) ListImages(page, perPage int) (*PageResult, error) {
	return s.list(mediatypes.KindImage, page, perPage)
}

// ListVideos returns one page of videos with their thumbnail URLs resolved.
func (s *Service) ListVideos(page, perPage int) (*PageResult, error) {
	return s.list(mediatypes.KindVideo, page, perPage)
}

func (s *Service) list(kind mediatypes.Kind, page, perPage int) (*PageResult, error) {
	start := time.Now()
	defer func() {
		metrics.GalleryListingDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	names, err := s.listNames(kind)
	if errors.Is(err, ErrNotFound) {
		logging.Debug("Gallery %s directory not found", kind)
		metrics.GalleryListingsTotal.WithLabelValues(string(kind), "not_found").Inc()
		return &PageResult{Items: []Item{}, Page: page, PerPage: perPage, NotFound: true}, nil
	}
	if err != nil {
		metrics.GalleryListingsTotal.WithLabelValues(string(kind), "error").Inc()
		return nil, err
	}

	p := Paginate(len(names), page, perPage)

	items := make([]Item, 0, p.End-p.Start)
	for i, name := range names[p.Start:p.End] {
		items = append(items, s.item(kind, p.Start+i+1, name))
	}

	metrics.GalleryListingsTotal.WithLabelValues(string(kind), "ok").Inc()
	metrics.GalleryItemsReturned.WithLabelValues(string(kind)).Observe(float64(len(items)))

	return &PageResult{
		Items:      items,
		Total:      len(names),
		TotalPages: p.TotalPages,
		Page:       p.Page,
		PerPage:    p.PerPage,
	}, nil
}

// RandomSample returns up to count items drawn uniformly without repetition
// from all images and videos. count is floored to 1.
func (s *Service) RandomSample(count int) (*SampleResult, error) {
	start := time.Now()
	defer func() {
		metrics.GalleryListingDuration.WithLabelValues("random").Observe(time.Since(start).Seconds())
	}()

	if count < 1 {
		count = 1
	}

	var all []Item
	for _, kind := range []mediatypes.Kind{mediatypes.KindImage, mediatypes.KindVideo} {
		names, err := s.listNames(kind)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			metrics.GalleryListingsTotal.WithLabelValues("random", "error").Inc()
			return nil, err
		}
		for i, name := range names {
			all = append(all, s.item(kind, i+1, name))
		}
	}

	if len(all) == 0 {
		metrics.GalleryListingsTotal.WithLabelValues("random", "not_found").Inc()
		return &SampleResult{Items: []Item{}, Empty: true}, nil
	}

	s.mu.Lock()
	s.rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})
	s.mu.Unlock()

	items := all[:min(count, len(all))]

	metrics.GalleryListingsTotal.WithLabelValues("random", "ok").Inc()
	metrics.GalleryItemsReturned.WithLabelValues("random").Observe(float64(len(items)))

	return &SampleResult{Items: items}, nil
}

// Stats counts the published files. It implements metrics.StatsProvider.
func (s *Service) Stats() metrics.Stats {
	var stats metrics.Stats
	if names, err := s.listNames(mediatypes.KindImage); err == nil {
		stats.Images = len(names)
	}
	if names, err := s.listNames(mediatypes.KindVideo); err == nil {
		stats.Videos = len(names)
	}
	if names, err := s.matchingFiles(s.cfg.ThumbnailsDir, s.cfg.ThumbnailExt); err == nil {
		stats.Thumbnails = len(names)
	}
	return stats
}

func (s *Service) listNames(kind mediatypes.Kind) ([]string, error) {
	if kind == mediatypes.KindVideo {
		return s.matchingFiles(s.cfg.VideosDir, s.cfg.VideoExt)
	}
	return s.matchingFiles(s.cfg.ImagesDir, s.cfg.ImageExt)
}

// matchingFiles returns the sorted names of regular, non-hidden files in dir
// whose extension equals ext, ignoring case.
func (s *Service) matchingFiles(dir, ext string) ([]string, error) {
	entries, err := filesystem.ReadDirWithRetry(dir, s.cfg.Retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if mediatypes.Ext(name) == strings.ToLower(ext) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *Service) item(kind mediatypes.Kind, id int, name string) Item {
	if kind == mediatypes.KindVideo {
		return Item{
			ID:        id,
			Type:      mediatypes.KindVideo,
			Filename:  name,
			Path:      path.Join(s.cfg.VideosURL, name),
			Title:     fmt.Sprintf(s.cfg.VideoTitleFormat, id),
			Thumbnail: s.thumbnailURL(name),
		}
	}
	return Item{
		ID:       id,
		Type:     mediatypes.KindImage,
		Filename: name,
		Path:     path.Join(s.cfg.ImagesURL, name),
		Title:    fmt.Sprintf(s.cfg.ImageTitleFormat, id),
	}
}

// thumbnailURL returns the URL of <stem><ThumbnailExt> when it exists in the
// thumbnails directory, or of the placeholder otherwise.
func (s *Service) thumbnailURL(videoName string) string {
	thumb := mediatypes.Stem(videoName) + s.cfg.ThumbnailExt
	if _, err := filesystem.StatWithRetry(filepath.Join(s.cfg.ThumbnailsDir, thumb), s.cfg.Retry); err == nil {
		metrics.GalleryThumbnailLookups.WithLabelValues("found").Inc()
		return path.Join(s.cfg.ThumbnailsURL, thumb)
	}
	metrics.GalleryThumbnailLookups.WithLabelValues("placeholder").Inc()
	return path.Join(s.cfg.ThumbnailsURL, s.cfg.PlaceholderName)
}
