package main

import (
	"encoding/json"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rental-site/internal/gallery"
	"rental-site/internal/handlers"
	"rental-site/internal/pages"
	"rental-site/internal/startup"

	"github.com/gorilla/mux"
)

func newTestRouter(t *testing.T) (*mux.Router, string) {
	t.Helper()
	static := t.TempDir()

	for _, f := range []struct{ dir, name string }{
		{"images", "car.webp"},
		{"videos", "tour.mp4"},
		{"thumbnails", "tour.webp"},
	} {
		dir := filepath.Join(static, "assets", f.dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, f.name), []byte("data"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	config := &startup.Config{
		StaticDir:     static,
		SiteName:      startup.DefaultSiteName,
		ImagesPerPage: 9,
		VideosPerPage: 8,
		RandomCount:   8,
		MaxPerPage:    100,
		ImagesDir:     filepath.Join(static, "assets", "images"),
		VideosDir:     filepath.Join(static, "assets", "videos"),
		ThumbnailsDir: filepath.Join(static, "assets", "thumbnails"),
	}

	renderer, err := pages.New()
	if err != nil {
		t.Fatal(err)
	}
	svc := gallery.New(gallery.DefaultConfig(static), gallery.WithRand(rand.New(rand.NewPCG(1, 2))))
	return setupRouter(handlers.New(svc, renderer, config), static), static
}

func TestSetupRouterRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantType   string
	}{
		{http.MethodGet, "/", http.StatusOK, "text/html"},
		{http.MethodGet, "/home", http.StatusOK, "text/html"},
		{http.MethodGet, "/all-cars", http.StatusOK, "text/html"},
		{http.MethodGet, "/gallery", http.StatusOK, "text/html"},
		{http.MethodGet, "/api/gallery/images", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/gallery/videos?page=2", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/gallery/random?count=1", http.StatusOK, "application/json"},
		{http.MethodGet, "/sitemap.xml", http.StatusOK, "application/xml"},
		{http.MethodGet, "/health", http.StatusOK, "application/json"},
		{http.MethodGet, "/healthz", http.StatusOK, "application/json"},
		{http.MethodHead, "/livez", http.StatusOK, "application/json"},
		{http.MethodGet, "/readyz", http.StatusOK, "application/json"},
		{http.MethodGet, "/version", http.StatusOK, "application/json"},
		{http.MethodGet, "/static/assets/images/car.webp", http.StatusOK, ""},
		{http.MethodGet, "/static/assets/images/missing.webp", http.StatusNotFound, ""},
		{http.MethodGet, "/nope", http.StatusNotFound, ""},
		{http.MethodPost, "/api/gallery/images", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantType != "" && !strings.HasPrefix(w.Header().Get("Content-Type"), tt.wantType) {
				t.Errorf("Content-Type = %q, want %s", w.Header().Get("Content-Type"), tt.wantType)
			}
		})
	}
}

func TestSetupRouterGalleryPayload(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/gallery/videos", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body struct {
		Videos []struct {
			ID        int    `json:"id"`
			Path      string `json:"path"`
			Thumbnail string `json:"thumbnail"`
		} `json:"videos"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body.Total != 1 || len(body.Videos) != 1 {
		t.Fatalf("body = %+v", body)
	}
	v := body.Videos[0]
	if v.ID != 1 || v.Path != "/static/assets/videos/tour.mp4" || v.Thumbnail != "/static/assets/thumbnails/tour.webp" {
		t.Errorf("video = %+v", v)
	}

	// The listed paths must be served by the static route.
	for _, p := range []string{v.Path, v.Thumbnail} {
		req := httptest.NewRequest(http.MethodGet, p, http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d", p, w.Code)
		}
	}
}

func TestSetupRouterNamesRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	routes, err := startup.GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes: %v", err)
	}

	names := make(map[string]string, len(routes))
	for _, r := range routes {
		names[r.Path] = r.Name
	}
	for path, want := range map[string]string{
		"/api/gallery/images": "gallery-images",
		"/sitemap.xml":        "sitemap",
		"/all-cars":           "all-cars",
	} {
		if names[path] != want {
			t.Errorf("route %s named %q, want %q", path, names[path], want)
		}
	}
}
