// Package startup handles configuration loading and the startup and shutdown
// logging of the web server.
//
// # Configuration
//
// [LoadConfig] first merges an optional .env file from the working directory
// (existing environment variables win) and then reads:
//
//   - STATIC_DIR: Directory served under /static (default: ./static)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - BASE_URL: Public origin used for sitemap locations (default: request host)
//   - SITE_NAME: Business name shown on pages
//   - IMAGES_PER_PAGE: Default page size for image listings (default: 9)
//   - VIDEOS_PER_PAGE: Default page size for video listings (default: 8)
//   - RANDOM_COUNT: Default sample size for the random endpoint (default: 8)
//   - MAX_PER_PAGE: Upper bound for per_page and count (default: 100)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// Media directories are derived from STATIC_DIR as assets/images,
// assets/videos and assets/thumbnails. They are checked at startup but never
// created; the gallery reports a missing directory on each request instead.
//
// # Build Information
//
// Version, Commit and BuildTime are set at build time:
//
//	go build -ldflags "-X rental-site/internal/startup.Version=1.0.0"
package startup
