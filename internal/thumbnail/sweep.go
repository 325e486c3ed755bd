package thumbnail

import (
	"context"
	"time"

	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/metrics"
)

const (
	sweepWarmup    = 5 * time.Second
	sweepInterval  = 30 * time.Second
	sweepItemDelay = 100 * time.Millisecond
)

// A Lister supplies the sweep work list.
type Lister interface {
	AllMediaWithGalleryPath(ctx context.Context) ([]catalog.MediaWithGallery, error)
}

// Sweeper fills in missing thumbnails in the background. One sweeper runs
// per process; it paces itself with a short delay between items so thumbnail
// generation never competes with request serving for long.
type Sweeper struct {
	store  Lister
	thumbs *Thumbnailer
}

func NewSweeper(store Lister, thumbs *Thumbnailer) *Sweeper {
	return &Sweeper{store: store, thumbs: thumbs}
}

// Run loops until ctx is cancelled. Each cycle walks the full catalog and
// generates whatever thumbnails are missing; per-item failures are logged
// and skipped so one bad file never stalls the rest.
func (s *Sweeper) Run(ctx context.Context) {
	logging.Info("Thumbnail sweeper starting (warmup: %v, interval: %v)", sweepWarmup, sweepInterval)

	select {
	case <-time.After(sweepWarmup):
	case <-ctx.Done():
		return
	}

	for {
		s.cycle(ctx)
		metrics.ThumbnailSweepCycles.Inc()

		select {
		case <-time.After(sweepInterval):
		case <-ctx.Done():
			logging.Info("Thumbnail sweeper stopping")
			return
		}
	}
}

func (s *Sweeper) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Thumbnail sweep cycle panicked: %v", r)
			metrics.ThumbnailSweepErrors.Inc()
		}
	}()

	items, err := s.store.AllMediaWithGalleryPath(ctx)
	if err != nil {
		logging.Error("Thumbnail sweep failed to list media: %v", err)
		metrics.ThumbnailSweepErrors.Inc()
		return
	}

	var generated int
	for _, m := range items {
		if ctx.Err() != nil {
			return
		}
		if s.thumbs.Exists(m.ID, m.GalleryPath) {
			continue
		}

		if err := s.thumbs.Generate(ctx, m); err != nil {
			logging.Warn("Thumbnail generation failed for %s: %v", m.Path, err)
			metrics.ThumbnailSweepErrors.Inc()
		} else {
			generated++
		}

		select {
		case <-time.After(sweepItemDelay):
		case <-ctx.Done():
			return
		}
	}

	if generated > 0 {
		logging.Info("Thumbnail sweep cycle generated %d thumbnails", generated)
	}
}
