package handlers

import (
	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/notify"
	"vibe-gallery/internal/scanner"
	"vibe-gallery/internal/startup"
	"vibe-gallery/internal/thumbnail"
)

type Handlers struct {
	store    *catalog.Store
	scanner  *scanner.Scanner
	thumbs   *thumbnail.Thumbnailer
	hub      *notify.Hub
	mediaDir string
}

func New(store *catalog.Store, scan *scanner.Scanner, thumbs *thumbnail.Thumbnailer, hub *notify.Hub, config *startup.Config) *Handlers {
	return &Handlers{
		store:    store,
		scanner:  scan,
		thumbs:   thumbs,
		hub:      hub,
		mediaDir: config.MediaDir,
	}
}
