package handlers

import (
	"net/http"

	"vibe-gallery/internal/logging"
)

// TriggerScan starts a reconciliation pass. If one is already running the
// request is rejected with 409; the caller can watch progress over the
// websocket instead.
func (h *Handlers) TriggerScan(w http.ResponseWriter, r *http.Request) {
	summary, err := h.scanner.Scan(r.Context())
	if err != nil {
		logging.Error("Scan failed: %v", err)
		writeJSONError(w, "Scan failed", http.StatusInternalServerError)
		return
	}
	if summary == nil {
		writeJSONError(w, "Scan already in progress", http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, summary)
}

// ScanStatus reports whether a scan is running and when the last one ended.
func (h *Handlers) ScanStatus(w http.ResponseWriter, _ *http.Request) {
	status := map[string]interface{}{
		"scanning": h.scanner.IsScanning(),
	}
	if last := h.scanner.LastScanTime(); !last.IsZero() {
		status["lastScan"] = last
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, status)
}

// ScanSocket upgrades the connection and streams scan progress events.
func (h *Handlers) ScanSocket(w http.ResponseWriter, r *http.Request) {
	h.hub.HandleConnection(w, r)
}
