// Package handlers implements the HTTP API for the gallery service.
//
// Routes are grouped by resource: gallery listing and detail, original media
// and thumbnail serving, scan triggering with websocket progress, and the
// usual health and version endpoints. All responses are JSON except file
// serving, which streams through http.ServeFile.
package handlers
