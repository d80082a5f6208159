// Package metrics provides Prometheus instrumentation for the rental site.
//
// All metrics are prefixed with "rental_site_" and registered on the default
// registry through promauto, so the handler returned by promhttp.Handler
// exposes them without further wiring.
//
// # Metric Categories
//
// HTTP:
//   - HTTPRequestsTotal: requests by method, path and status
//   - HTTPRequestDuration: request latency by method and path
//   - HTTPRequestsInFlight: requests currently being served
//
// Gallery:
//   - GalleryListingsTotal: listings by kind (image, video, random) and status
//   - GalleryListingDuration: listing latency by kind
//   - GalleryItemsReturned: items per response by kind
//   - GalleryThumbnailLookups: video thumbnail resolution (found, placeholder)
//   - MediaFilesTotal: published files by kind, refreshed by Collector
//
// Filesystem:
//   - FilesystemOperationDuration / FilesystemOperationErrors
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures,
//     FilesystemStaleErrors, FilesystemRetryDuration
//
// The filesystem package records through the Observer returned by
// NewFilesystemObserver, which keeps that package free of a Prometheus import.
package metrics
