package handlers

import (
	"database/sql"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/mediatypes"
)

const (
	defaultPageSize = 24
	maxPageSize     = 100
)

// GallerySummary is the list view of a gallery: row data plus a media count
// and a cover image candidate.
type GallerySummary struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Path         string    `json:"path"`
	CreatedAt    time.Time `json:"createdAt"`
	MediaCount   int       `json:"mediaCount"`
	CoverMediaID int64     `json:"coverMediaId,omitempty"`
}

// GalleryPage is the detail view: the gallery plus one page of its media.
type GalleryPage struct {
	Gallery  *catalog.Gallery `json:"gallery"`
	Media    []*catalog.Media `json:"media"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Total    int              `json:"total"`
}

// ListGalleries returns all galleries as summaries, newest first.
func (h *Handlers) ListGalleries(w http.ResponseWriter, r *http.Request) {
	galleries, err := h.store.ListGalleries(r.Context())
	if err != nil {
		logging.Error("ListGalleries failed: %v", err)
		writeJSONError(w, "Failed to list galleries", http.StatusInternalServerError)
		return
	}

	summaries := make([]GallerySummary, 0, len(galleries))
	for _, g := range galleries {
		summaries = append(summaries, GallerySummary{
			ID:           g.ID,
			Name:         g.Name,
			Description:  g.Description,
			Path:         g.Path,
			CreatedAt:    g.CreatedAt,
			MediaCount:   len(g.Media),
			CoverMediaID: coverCandidate(g.Media),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, summaries)
}

// coverCandidate picks a random image from the gallery, falling back to any
// media item. Zero means the gallery is empty.
func coverCandidate(media []catalog.Media) int64 {
	var images []int64
	for i := range media {
		if media[i].Type == mediatypes.TypeImage {
			images = append(images, media[i].ID)
		}
	}
	if len(images) > 0 {
		return images[rand.Intn(len(images))]
	}
	if len(media) > 0 {
		return media[rand.Intn(len(media))].ID
	}
	return 0
}

// GetGallery returns one gallery with a page of its media.
func (h *Handlers) GetGallery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, "Invalid gallery ID", http.StatusBadRequest)
		return
	}

	page, pageSize := pageParams(r)

	gallery, err := h.store.GetGallery(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "Gallery not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("GetGallery %d failed: %v", id, err)
		writeJSONError(w, "Failed to get gallery", http.StatusInternalServerError)
		return
	}

	media, total, err := h.store.ListMediaPage(r.Context(), id, page, pageSize)
	if err != nil {
		logging.Error("ListMediaPage for gallery %d failed: %v", id, err)
		writeJSONError(w, "Failed to list gallery media", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, GalleryPage{
		Gallery:  gallery,
		Media:    media,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

func pageParams(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = defaultPageSize

	if p, err := intQuery(r, "page"); err == nil && p > 0 {
		page = p
	}
	if ps, err := intQuery(r, "pageSize"); err == nil {
		switch {
		case ps < 1:
			pageSize = 1
		case ps > maxPageSize:
			pageSize = maxPageSize
		default:
			pageSize = ps
		}
	}
	return page, pageSize
}

// DeleteGallery removes a gallery, its media rows, and its thumbnails.
// Thumbnails go first so a failed delete leaves them sweepable, not orphaned.
func (h *Handlers) DeleteGallery(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSONError(w, "Invalid gallery ID", http.StatusBadRequest)
		return
	}

	gallery, err := h.store.GetGallery(r.Context(), id)
	if errors.Is(err, sql.ErrNoRows) {
		writeJSONError(w, "Gallery not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logging.Error("DeleteGallery %d lookup failed: %v", id, err)
		writeJSONError(w, "Failed to delete gallery", http.StatusInternalServerError)
		return
	}

	h.thumbs.DeleteGallery(gallery.Path)

	if err := h.store.DeleteGalleryByID(r.Context(), id); err != nil {
		logging.Error("DeleteGallery %d failed: %v", id, err)
		writeJSONError(w, "Failed to delete gallery", http.StatusInternalServerError)
		return
	}

	logging.Info("Deleted gallery %d (%s)", id, gallery.Name)
	writeJSONStatus(w, "deleted")
}
