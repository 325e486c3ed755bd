package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/ffmpeg"
	"vibe-gallery/internal/handlers"
	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/mediatypes"
	"vibe-gallery/internal/metrics"
	"vibe-gallery/internal/middleware"
	"vibe-gallery/internal/notify"
	"vibe-gallery/internal/scanner"
	"vibe-gallery/internal/startup"
	"vibe-gallery/internal/thumbnail"
)

func main() {
	startTime := time.Now()

	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()

	// Background work stops through this context on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbStart := time.Now()
	store, err := catalog.New(ctx, config.DatabasePath)
	if err != nil {
		logging.Fatal("Failed to initialize database: %v", err)
	}
	defer store.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	prober := ffmpeg.New()
	startup.LogThumbnailInit(prober.Available())

	thumbnail.InitVips()
	defer thumbnail.ShutdownVips()

	codec := thumbnail.NewCodec()
	thumbs := thumbnail.NewThumbnailer(config.MediaDir, config.ThumbnailDir, codec, prober)

	hub := notify.NewHub()

	exts := mediatypes.NewExtensions(config.ImageExtensions, config.VideoExtensions)
	scan := scanner.New(store, config.MediaDir, exts, hub)

	startup.LogScannerInit(config.ScanSchedule)
	scheduler := scanner.NewScheduler(scan, config.ScanSchedule)
	if err := scheduler.Start(ctx); err != nil {
		logging.Fatal("Invalid SCAN_SCHEDULE: %v", err)
	}

	sweeper := thumbnail.NewSweeper(store, thumbs)
	go sweeper.Run(ctx)

	h := handlers.New(store, scan, thumbs, hub, config)
	router := setupRouter(h)

	startup.LogHTTPRoutes(router, config.LogStaticFiles, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	handler := middleware.Metrics(middleware.DefaultMetricsConfig())(loggedHandler)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = startMetricsServer(config.MetricsPort)
	}

	go handleShutdown(srv, metricsSrv, scheduler, cancel)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/galleries", h.ListGalleries).Methods("GET")
	api.HandleFunc("/galleries/{id:[0-9]+}", h.GetGallery).Methods("GET")
	api.HandleFunc("/galleries/{id:[0-9]+}", h.DeleteGallery).Methods("DELETE")
	api.HandleFunc("/media/{id:[0-9]+}/file", h.GetMediaFile).Methods("GET")
	api.HandleFunc("/media/{id:[0-9]+}/thumbnail", h.GetThumbnail).Methods("GET")
	api.HandleFunc("/media/{id:[0-9]+}", h.DeleteMedia).Methods("DELETE")
	api.HandleFunc("/scan", h.TriggerScan).Methods("POST")
	api.HandleFunc("/scan/status", h.ScanStatus).Methods("GET")

	r.HandleFunc("/ws/scan", h.ScanSocket)

	// Static files
	r.PathPrefix("/").Handler(http.FileServer(http.Dir("./static")))

	return r
}

func startMetricsServer(port string) *http.Server {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      metricsMux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logging.Error("Metrics server error: %v", err)
		}
	}()

	return srv
}

func handleShutdown(srv, metricsSrv *http.Server, scheduler *scanner.Scheduler, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelTimeout()

	scheduler.Stop()
	startup.LogShutdownStepComplete("Scan scheduler stopped")

	// Stops the sweeper and any in-flight scan.
	cancel()
	startup.LogShutdownStepComplete("Background workers stopped")

	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
