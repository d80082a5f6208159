// Package main runs the rental site web server.
//
// The server publishes the promotional pages of a car rental business
// together with a small JSON API that lists the photos and videos kept under
// STATIC_DIR/assets. Media is managed offline with the convert-images and
// generate-thumbnails tools; the server only reads the directories, so new
// files appear on the next request without a restart.
//
// # Routes
//
//   - GET /, /home, /all-cars, /gallery: HTML pages
//   - GET /api/gallery/images?page=&per_page=: paginated images (default 9 per page)
//   - GET /api/gallery/videos?page=&per_page=: paginated videos with thumbnails (default 8)
//   - GET /api/gallery/random?count=: shuffled mix of images and videos (default 8)
//   - GET /sitemap.xml: sitemap of the static pages
//   - GET /static/...: files under STATIC_DIR
//   - GET /health, /healthz, /livez, /readyz, /version: probes and build info
//
// Prometheus metrics are served on a separate port at /metrics.
//
// # Environment Variables
//
//   - STATIC_DIR: static root containing assets/images, assets/videos and
//     assets/thumbnails (default: ./static)
//   - PORT: HTTP port (default: 8080)
//   - METRICS_PORT: metrics port (default: 9090)
//   - METRICS_ENABLED: enable the metrics server (default: true)
//   - BASE_URL: public origin used in the sitemap (default: request host)
//   - SITE_NAME: business name shown on pages
//   - IMAGES_PER_PAGE, VIDEOS_PER_PAGE, RANDOM_COUNT: endpoint defaults
//   - MAX_PER_PAGE: upper bound for per_page and count (default: 100)
//   - LOG_LEVEL: debug, info, warn or error
//   - LOG_STATIC_FILES, LOG_HEALTH_CHECKS: access log filtering
//
// Variables may also be placed in a .env file in the working directory.
//
// # Graceful Shutdown
//
// On SIGINT or SIGTERM the metrics collector is stopped, then the metrics
// server and finally the main server are shut down with a 30s timeout.
package main
