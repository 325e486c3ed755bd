// Package metrics declares all Prometheus metrics for the gallery server.
//
// Metrics are registered via promauto at package init and cover the HTTP
// layer, the catalog database, the filesystem reconciler, the thumbnail
// pipeline, and the scan-progress WebSocket hub.
package metrics
