package metrics

// Volumes are the filesystem volume labels used by the site.
var Volumes = []string{"images", "videos", "thumbnails", "static", "unknown"}

// InitializeMetrics pre-populates the expected label combinations so every
// metric is exported from the first scrape.
func InitializeMetrics() {
	for _, kind := range []string{"image", "video", "random"} {
		for _, status := range []string{"ok", "not_found", "error"} {
			GalleryListingsTotal.WithLabelValues(kind, status)
		}
		GalleryListingDuration.WithLabelValues(kind)
		GalleryItemsReturned.WithLabelValues(kind)
	}

	for _, result := range []string{"found", "placeholder"} {
		GalleryThumbnailLookups.WithLabelValues(result)
	}

	for _, kind := range []string{"image", "video", "thumbnail"} {
		MediaFilesTotal.WithLabelValues(kind)
	}

	for _, vol := range Volumes {
		for _, op := range []string{"stat", "readdir", "write"} {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
