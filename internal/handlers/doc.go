// Package handlers provides the HTTP handlers of the rental site.
//
// It includes handlers for:
//   - The gallery API (paginated images and videos, random sample)
//   - The sitemap
//   - The HTML pages
//   - Health checks, build version and Prometheus metrics
//
// Gallery endpoints answer 200 with an "error" field when a media directory
// is missing, so the front end can render an empty gallery.
package handlers
