package handlers

import (
	"net/http"

	"rental-site/internal/logging"
	"rental-site/internal/pages"
)

var pageDescriptions = map[string]string{
	pages.Home:    "Sewa mobil harian dan bulanan dengan armada terawat.",
	pages.AllCars: "Daftar lengkap armada mobil yang tersedia untuk disewa.",
	pages.Gallery: "Foto dan video armada mobil kami.",
}

// ServePage returns a handler rendering the named page.
func (h *Handlers) ServePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := pages.Data{
			SiteName:      h.config.SiteName,
			Description:   pageDescriptions[name],
			Active:        name,
			Year:          h.now().Year(),
			ImagesPerPage: h.config.ImagesPerPage,
			VideosPerPage: h.config.VideosPerPage,
			RandomCount:   h.config.RandomCount,
		}
		if h.config.BaseURL != "" {
			data.CanonicalURL = h.config.BaseURL + r.URL.Path
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := h.pages.Render(w, name, data); err != nil {
			logging.Error("Failed to render page %s: %v", name, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
}
