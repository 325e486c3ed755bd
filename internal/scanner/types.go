package scanner

import (
	"context"
	"time"

	"vibe-gallery/internal/catalog"
)

// Catalog is the slice of the catalog store the reconciler needs. Writes are
// staged by the store and flushed by Commit.
type Catalog interface {
	ListGalleries(ctx context.Context) ([]*catalog.Gallery, error)
	AddGallery(g *catalog.Gallery)
	RemoveGalleries(galleries []*catalog.Gallery)
	AddMedia(m *catalog.Media)
	RemoveMedia(media []*catalog.Media)
	Commit(ctx context.Context) error
}

// Summary is the result of one completed reconciliation pass.
type Summary struct {
	ScanID           string        `json:"scanId"`
	GalleriesAdded   int           `json:"galleriesAdded"`
	GalleriesRemoved int           `json:"galleriesRemoved"`
	MediaAdded       int           `json:"mediaAdded"`
	MediaRemoved     int           `json:"mediaRemoved"`
	Duration         time.Duration `json:"duration"`
}

// Progress phases.
const (
	PhaseGalleries = "Galleries"
	PhaseMedia     = "Media"
)

// ProgressMethod is the event name clients subscribe to.
const ProgressMethod = "ReceiveScanProgress"

// Progress is a progress update pushed to the notification transport after
// each reconciliation step.
type Progress struct {
	ScanID             string `json:"scanId"`
	Phase              string `json:"phase"`
	GalleryName        string `json:"galleryName,omitempty"`
	ProcessedGalleries int    `json:"processedGalleries"`
	TotalGalleries     int    `json:"totalGalleries"`
	MediaAdded         int    `json:"mediaAdded"`
	MediaRemoved       int    `json:"mediaRemoved"`
	Message            string `json:"message"`
}
