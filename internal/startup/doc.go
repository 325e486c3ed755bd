// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// A .env file in the working directory is applied first, if present. The
// following environment variables are supported:
//
//   - MEDIA_DIR: Path to the media root directory (default: /media)
//   - CACHE_DIR: Path to the cache directory for thumbnails (default: /cache)
//   - DATABASE_DIR: Path to the database directory (default: /database)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - SCAN_SCHEDULE: Cron expression for periodic rescans (default: @every 30m)
//   - IMAGE_EXTENSIONS: Comma-separated image extension override
//   - VIDEO_EXTENSIONS: Comma-separated video extension override
//   - LOG_FILE: Rotating log file path, in addition to stderr (default: none)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//   - LOG_STATIC_FILES: Log static file requests (default: false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// # Directory Setup
//
// The database and thumbnail directories are created if missing and must be
// writable; a missing media directory only logs a warning, since scans treat
// it as empty.
package startup
