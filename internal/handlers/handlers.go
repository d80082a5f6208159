package handlers

import (
	"time"

	"rental-site/internal/gallery"
	"rental-site/internal/pages"
	"rental-site/internal/sitemap"
	"rental-site/internal/startup"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	gallery   *gallery.Service
	pages     *pages.Renderer
	config    *startup.Config
	startTime time.Time

	// now and buildSitemap are replaceable in tests
	now          func() time.Time
	buildSitemap func(baseURL string, now time.Time) ([]byte, error)
}

// New creates the handlers for svc and renderer.
func New(svc *gallery.Service, renderer *pages.Renderer, config *startup.Config) *Handlers {
	return &Handlers{
		gallery:   svc,
		pages:     renderer,
		config:    config,
		startTime: time.Now(),
		now:       time.Now,
		buildSitemap: func(baseURL string, now time.Time) ([]byte, error) {
			return sitemap.Build(baseURL, sitemap.StaticPages, now)
		},
	}
}
