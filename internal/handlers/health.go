package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"rental-site/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status  string `json:"status"`
	Ready   bool   `json:"ready"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`

	// Media directories present on disk
	ImagesDir     bool `json:"imagesDir"`
	VideosDir     bool `json:"videosDir"`
	ThumbnailsDir bool `json:"thumbnailsDir"`

	// Published file counts
	Images     int `json:"images"`
	Videos     int `json:"videos"`
	Thumbnails int `json:"thumbnails"`

	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// HealthCheck reports service and media directory status. A missing media
// directory degrades the status but still answers 200 since the gallery
// handles it per request.
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	stats := h.gallery.Stats()

	response := HealthResponse{
		Status:        statusHealthy,
		Ready:         h.ready(),
		Version:       startup.Version,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		ImagesDir:     dirExists(h.config.ImagesDir),
		VideosDir:     dirExists(h.config.VideosDir),
		ThumbnailsDir: dirExists(h.config.ThumbnailsDir),
		Images:        stats.Images,
		Videos:        stats.Videos,
		Thumbnails:    stats.Thumbnails,
		GoVersion:     runtime.Version(),
		NumCPU:        runtime.NumCPU(),
		NumGoroutine:  runtime.NumGoroutine(),
	}

	if !response.ImagesDir || !response.VideosDir || !response.ThumbnailsDir {
		response.Status = statusDegraded
	}

	status := http.StatusOK
	if !response.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessCheck returns 200 once the static directory is available.
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if h.ready() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}

func (h *Handlers) ready() bool {
	return h.pages != nil && dirExists(h.config.StaticDir)
}
