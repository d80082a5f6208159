package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rental-site/internal/filesystem"
	"rental-site/internal/gallery"
	"rental-site/internal/handlers"
	"rental-site/internal/logging"
	"rental-site/internal/memory"
	"rental-site/internal/metrics"
	"rental-site/internal/middleware"
	"rental-site/internal/pages"
	"rental-site/internal/startup"

	"github.com/gorilla/mux"
)

const (
	metricsInterval = time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	startTime := time.Now()

	// Must run before significant allocations
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	// Metrics and filesystem instrumentation
	metrics.SetAppInfo(startup.Version, startup.Commit, startup.GoVersion)
	metrics.InitializeMetrics()
	filesystem.SetObserver(metrics.NewFilesystemObserver())
	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
		"images":     config.ImagesDir,
		"videos":     config.VideosDir,
		"thumbnails": config.ThumbnailsDir,
		"static":     config.StaticDir,
	}))

	galleryConfig := gallery.DefaultConfig(config.StaticDir)
	galleryConfig.ImagesDir = config.ImagesDir
	galleryConfig.VideosDir = config.VideosDir
	galleryConfig.ThumbnailsDir = config.ThumbnailsDir
	svc := gallery.New(galleryConfig)

	renderer, err := pages.New()
	if err != nil {
		logging.Fatal("Failed to load page templates: %v", err)
	}

	h := handlers.New(svc, renderer, config)

	// Setup router
	router := setupRouter(h, config.StaticDir)
	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply compression middleware
	handler := middleware.Compression(middleware.DefaultCompressionConfig())(loggedHandler)

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      0, // video files are streamed from /static
		IdleTimeout:       60 * time.Second,
	}

	var collector *metrics.Collector
	var metricsSrv *http.Server
	if config.MetricsEnabled {
		collector = metrics.NewCollector(svc, metricsInterval)
		collector.Start()

		metricsSrv = newMetricsServer(h, config.MetricsPort)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go handleShutdown(srv, metricsSrv, collector)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet).Name("health")
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet).Name("healthz")
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead).Name("livez")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet).Name("readyz")
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet).Name("version")

	// Gallery API
	api := r.PathPrefix("/api/gallery").Subrouter()
	api.HandleFunc("/images", h.GetImages).Methods(http.MethodGet).Name("gallery-images")
	api.HandleFunc("/videos", h.GetVideos).Methods(http.MethodGet).Name("gallery-videos")
	api.HandleFunc("/random", h.GetRandom).Methods(http.MethodGet).Name("gallery-random")

	r.HandleFunc("/sitemap.xml", h.GetSitemap).Methods(http.MethodGet).Name("sitemap")

	// Pages
	r.HandleFunc("/", h.ServePage(pages.Home)).Methods(http.MethodGet).Name("index")
	r.HandleFunc("/home", h.ServePage(pages.Home)).Methods(http.MethodGet).Name("home")
	r.HandleFunc("/all-cars", h.ServePage(pages.AllCars)).Methods(http.MethodGet).Name("all-cars")
	r.HandleFunc("/gallery", h.ServePage(pages.Gallery)).Methods(http.MethodGet).Name("gallery")

	// Static files
	r.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))).
		Methods(http.MethodGet, http.MethodHead).
		Name("static")

	return r
}

func newMetricsServer(h *handlers.Handlers, port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", h.MetricsHandler())
	metricsMux.HandleFunc("/health", h.LivenessCheck)

	return &http.Server{
		Addr:              ":" + port,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func handleShutdown(srv, metricsSrv *http.Server, collector *metrics.Collector) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
