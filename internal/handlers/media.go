package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"path/filepath"

	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/thumbnail"
)

// GetMediaFile serves the original media file.
func (h *Handlers) GetMediaFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	media, err := h.store.GetMedia(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "Media not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetMediaFile %d failed: %v", id, err)
		writeJSONError(w, "Failed to get media", http.StatusInternalServerError)
		return
	}

	fullPath := filepath.Join(h.mediaDir, media.Path)
	absPath, err := filepath.Abs(fullPath)
	if err != nil || !isSubPath(h.mediaDir, absPath) {
		writeJSONError(w, "Invalid path", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", media.ContentType)
	http.ServeFile(w, r, absPath)
}

// GetThumbnail serves the media item's thumbnail, or the placeholder when no
// thumbnail has been generated yet. Known media never gets a 404 here.
func (h *Handlers) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	media, err := h.store.GetMedia(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "Media not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetThumbnail %d failed: %v", id, err)
		writeJSONError(w, "Failed to get media", http.StatusInternalServerError)
		return
	}

	path, contentType, placeholder := h.thumbs.Path(media.ID, media.GalleryPath)
	w.Header().Set("Content-Type", contentType)
	if placeholder {
		// Placeholders are transient; the sweeper may replace them shortly.
		w.Header().Set("Cache-Control", "no-cache")
		if _, err := w.Write(thumbnail.PlaceholderSVG); err != nil {
			logging.Error("failed to write placeholder: %v", err)
		}
		return
	}
	http.ServeFile(w, r, path)
}

// DeleteMedia removes a media row and its thumbnail. The file on disk is
// untouched; the next scan would re-add the row unless the file is gone too.
func (h *Handlers) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, "Invalid media ID", http.StatusBadRequest)
		return
	}

	media, err := h.store.GetMedia(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "Media not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("DeleteMedia %d lookup failed: %v", id, err)
		writeJSONError(w, "Failed to delete media", http.StatusInternalServerError)
		return
	}

	h.thumbs.Delete(media.ID, media.GalleryPath)

	if err := h.store.DeleteMediaByID(r.Context(), id); err != nil {
		logging.Error("DeleteMedia %d failed: %v", id, err)
		writeJSONError(w, "Failed to delete media", http.StatusInternalServerError)
		return
	}

	logging.Info("Deleted media %d (%s)", id, media.Path)
	writeJSONStatus(w, "deleted")
}
