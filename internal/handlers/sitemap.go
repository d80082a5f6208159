package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"rental-site/internal/logging"
)

// GetSitemap serves GET /sitemap.xml. Any failure, including a panic while
// building, yields a plain-text 500.
func (h *Handlers) GetSitemap(w http.ResponseWriter, r *http.Request) {
	data, err := h.safeBuildSitemap(h.baseURL(r))
	if err != nil {
		logging.Error("Sitemap generation failed: %v", err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Error generating sitemap"))
		return
	}

	w.Header().Set("Content-Type", "application/xml")
	if _, err := w.Write(data); err != nil {
		logging.Warn("failed to write sitemap: %v", err)
	}
}

func (h *Handlers) safeBuildSitemap(baseURL string) (data []byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return h.buildSitemap(baseURL, h.now())
}

// baseURL returns BASE_URL when configured, otherwise the origin the request
// was made to.
func (h *Handlers) baseURL(r *http.Request) string {
	if h.config.BaseURL != "" {
		return h.config.BaseURL
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		first, _, _ := strings.Cut(proto, ",")
		scheme = strings.TrimSpace(first)
	}
	return scheme + "://" + r.Host
}
