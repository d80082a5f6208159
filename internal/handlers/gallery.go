package handlers

import (
	"net/http"

	"rental-site/internal/gallery"
	"rental-site/internal/logging"
)

type imagesResponse struct {
	Error      string         `json:"error,omitempty"`
	Images     []gallery.Item `json:"images"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
}

type videosResponse struct {
	Error      string         `json:"error,omitempty"`
	Videos     []gallery.Item `json:"videos"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
}

type randomResponse struct {
	Error string         `json:"error,omitempty"`
	Items []gallery.Item `json:"items"`
}

// pageParams reads page and per_page, capping per_page at MaxPerPage.
func (h *Handlers) pageParams(r *http.Request, defPerPage int) (int, int) {
	page := queryInt(r, "page", 1)
	perPage := min(queryInt(r, "per_page", defPerPage), h.config.MaxPerPage)
	return page, perPage
}

// GetImages serves GET /api/gallery/images
func (h *Handlers) GetImages(w http.ResponseWriter, r *http.Request) {
	page, perPage := h.pageParams(r, h.config.ImagesPerPage)

	result, err := h.gallery.ListImages(page, perPage)
	if err != nil {
		logging.Error("Image listing failed: %v", err)
		writeJSONError(w, "Failed to list images", http.StatusInternalServerError)
		return
	}

	resp := imagesResponse{
		Images:     result.Items,
		Total:      result.Total,
		TotalPages: result.TotalPages,
		Page:       result.Page,
		PerPage:    result.PerPage,
	}
	if result.NotFound {
		resp.Error = "Image directory not found"
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetVideos serves GET /api/gallery/videos
func (h *Handlers) GetVideos(w http.ResponseWriter, r *http.Request) {
	page, perPage := h.pageParams(r, h.config.VideosPerPage)

	result, err := h.gallery.ListVideos(page, perPage)
	if err != nil {
		logging.Error("Video listing failed: %v", err)
		writeJSONError(w, "Failed to list videos", http.StatusInternalServerError)
		return
	}

	resp := videosResponse{
		Videos:     result.Items,
		Total:      result.Total,
		TotalPages: result.TotalPages,
		Page:       result.Page,
		PerPage:    result.PerPage,
	}
	if result.NotFound {
		resp.Error = "Video directory not found"
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetRandom serves GET /api/gallery/random. count is not capped: the
// response always holds min(count, total) items.
func (h *Handlers) GetRandom(w http.ResponseWriter, r *http.Request) {
	count := queryInt(r, "count", h.config.RandomCount)

	result, err := h.gallery.RandomSample(count)
	if err != nil {
		logging.Error("Random sample failed: %v", err)
		writeJSONError(w, "Failed to sample gallery", http.StatusInternalServerError)
		return
	}

	resp := randomResponse{Items: result.Items}
	if result.Empty {
		resp.Error = "No gallery items found"
	}
	writeJSON(w, http.StatusOK, resp)
}
