package catalog

import (
	"time"

	"vibe-gallery/internal/mediatypes"
)

// Gallery is a catalogued media folder directly under the media root.
// Path is the folder name relative to the media root and is the
// reconciliation key; it never changes once the row exists.
type Gallery struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Path        string    `json:"path"`
	CreatedAt   time.Time `json:"createdAt"`
	Media       []Media   `json:"media,omitempty"`
}

// Media is a catalogued file inside a gallery. Path is relative to the media
// root and includes the gallery folder; it is the reconciliation key. Type
// and ContentType are derived from the extension once, at creation.
type Media struct {
	ID          int64                `json:"id"`
	Path        string               `json:"path"`
	ContentType string               `json:"contentType"`
	FileSize    int64                `json:"fileSize"`
	Type        mediatypes.MediaType `json:"type"`
	Tags        string               `json:"tags,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
	GalleryID   int64                `json:"galleryId"`
}

// MediaWithGallery pairs a media row with its owning gallery's path, as
// needed by the thumbnail pipeline to build thumbnail file paths.
type MediaWithGallery struct {
	Media
	GalleryPath string `json:"galleryPath"`
}
