package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/mediatypes"
	"vibe-gallery/internal/metrics"
	"vibe-gallery/internal/notify"
)

// Scanner reconciles the media root directory with the catalog. At most one
// pass runs at a time; concurrent Scan calls are rejected without blocking.
type Scanner struct {
	store     Catalog
	mediaRoot string
	exts      mediatypes.Extensions
	publisher notify.Publisher

	mu           sync.Mutex
	scanning     bool
	lastScanTime time.Time
}

// New creates a Scanner over the given media root.
func New(store Catalog, mediaRoot string, exts mediatypes.Extensions, publisher notify.Publisher) *Scanner {
	return &Scanner{
		store:     store,
		mediaRoot: mediaRoot,
		exts:      exts,
		publisher: publisher,
	}
}

// Scan runs one full reconciliation pass. If another pass is already running
// it returns (nil, nil) immediately; callers surface that as "scan already in
// progress", not as an error. Cancellation is observed between steps: already
// committed changes stay committed and the next pass picks up the rest.
func (s *Scanner) Scan(ctx context.Context) (*Summary, error) {
	if !s.tryStart() {
		logging.Warn("Scan already in progress, skipping")
		metrics.ScanBusyTotal.Inc()
		return nil, nil
	}
	defer s.finish()

	metrics.ScanIsRunning.Set(1)
	defer metrics.ScanIsRunning.Set(0)
	metrics.ScanRunsTotal.Inc()

	summary, err := s.run(ctx)
	if err != nil {
		metrics.ScanErrors.Inc()
		return nil, err
	}

	metrics.ScanDuration.Observe(summary.Duration.Seconds())
	metrics.ScanItemsChanged.WithLabelValues("gallery", "added").Add(float64(summary.GalleriesAdded))
	metrics.ScanItemsChanged.WithLabelValues("gallery", "removed").Add(float64(summary.GalleriesRemoved))
	metrics.ScanItemsChanged.WithLabelValues("media", "added").Add(float64(summary.MediaAdded))
	metrics.ScanItemsChanged.WithLabelValues("media", "removed").Add(float64(summary.MediaRemoved))
	return summary, nil
}

func (s *Scanner) tryStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scanning {
		return false
	}
	s.scanning = true
	return true
}

func (s *Scanner) finish() {
	s.mu.Lock()
	s.scanning = false
	s.lastScanTime = time.Now()
	s.mu.Unlock()
}

// IsScanning returns whether a pass is currently running.
func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// LastScanTime returns when the last pass finished (zero before the first).
func (s *Scanner) LastScanTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastScanTime
}

func (s *Scanner) run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	scanID := uuid.NewString()
	logging.Info("Media scan %s started, root: %s", scanID, s.mediaRoot)

	s.publish(Progress{
		ScanID:  scanID,
		Phase:   PhaseGalleries,
		Message: "Scan started",
	})

	dirs, added, removed, err := s.syncGalleries(ctx)
	if err != nil {
		return nil, err
	}

	logging.Info("Gallery sync: +%d / -%d", added, removed)
	s.publish(Progress{
		ScanID:         scanID,
		Phase:          PhaseGalleries,
		TotalGalleries: len(dirs),
		Message:        fmt.Sprintf("Gallery sync complete: +%d added, -%d removed", added, removed),
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{
		ScanID:           scanID,
		GalleriesAdded:   added,
		GalleriesRemoved: removed,
	}

	for i, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mediaAdded, mediaRemoved, err := s.syncGalleryMedia(dir)
		if err != nil {
			return nil, err
		}
		summary.MediaAdded += mediaAdded
		summary.MediaRemoved += mediaRemoved

		logging.Info("Scanned gallery %q (%d/%d): +%d / -%d",
			dir.gallery.Name, i+1, len(dirs), mediaAdded, mediaRemoved)

		s.publish(Progress{
			ScanID:             scanID,
			Phase:              PhaseMedia,
			GalleryName:        dir.gallery.Name,
			ProcessedGalleries: i + 1,
			TotalGalleries:     len(dirs),
			MediaAdded:         mediaAdded,
			MediaRemoved:       mediaRemoved,
			Message: fmt.Sprintf("Gallery %q (%d/%d): +%d added, -%d removed",
				dir.gallery.Name, i+1, len(dirs), mediaAdded, mediaRemoved),
		})
	}

	// Media additions and removals for the whole pass flush in one batch.
	if err := s.store.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit media sync: %w", err)
	}

	summary.Duration = time.Since(start)
	logging.Info("Media scan %s completed in %v. Galleries: +%d/-%d, Media: +%d/-%d",
		scanID, summary.Duration, summary.GalleriesAdded, summary.GalleriesRemoved,
		summary.MediaAdded, summary.MediaRemoved)

	return summary, nil
}

// galleryDir pairs a catalog gallery with the directory name as it appears
// on disk. The two can differ in case: matching is case-insensitive, and the
// stored path keeps its original casing across case-only renames.
type galleryDir struct {
	gallery *catalog.Gallery
	dirName string
}

// syncGalleries reconciles the set of gallery directories with the catalog
// and commits the result. It returns the surviving galleries in a stable
// path order, ready for media-level reconciliation.
func (s *Scanner) syncGalleries(ctx context.Context) ([]galleryDir, int, int, error) {
	entries, err := os.ReadDir(s.mediaRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, 0, 0, fmt.Errorf("failed to read media root: %w", err)
		}
		// A missing media root is an empty listing, not a failure.
		entries = nil
	}

	fsDirs := make(map[string]string) // lowercased name -> name as on disk
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fsDirs[strings.ToLower(entry.Name())] = entry.Name()
	}

	dbGalleries, err := s.store.ListGalleries(ctx)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to list catalog galleries: %w", err)
	}

	surviving := make(map[string]galleryDir, len(dbGalleries))
	var removed []*catalog.Gallery
	for _, g := range dbGalleries {
		if dirName, onDisk := fsDirs[strings.ToLower(g.Path)]; onDisk {
			surviving[strings.ToLower(g.Path)] = galleryDir{gallery: g, dirName: dirName}
		} else {
			removed = append(removed, g)
		}
	}

	var added int
	for lower, name := range fsDirs {
		if _, known := surviving[lower]; known {
			continue
		}
		g := &catalog.Gallery{
			Name:        name,
			Description: "",
			Path:        name,
			CreatedAt:   s.dirCreatedAt(name),
		}
		s.store.AddGallery(g)
		surviving[lower] = galleryDir{gallery: g, dirName: name}
		added++
	}

	if len(removed) > 0 {
		s.store.RemoveGalleries(removed)
	}

	// Gallery-level changes persist before any media-level work begins.
	if err := s.store.Commit(ctx); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to commit gallery sync: %w", err)
	}

	dirs := make([]galleryDir, 0, len(surviving))
	for _, d := range surviving {
		dirs = append(dirs, d)
	}
	sort.Slice(dirs, func(i, j int) bool {
		return strings.ToLower(dirs[i].gallery.Path) < strings.ToLower(dirs[j].gallery.Path)
	})

	return dirs, added, len(removed), nil
}

// dirCreatedAt approximates a directory's creation time. Go exposes no
// portable birth time, so the directory's mtime stands in for it.
func (s *Scanner) dirCreatedAt(name string) time.Time {
	info, err := os.Stat(filepath.Join(s.mediaRoot, name))
	if err != nil {
		return time.Now().UTC()
	}
	return info.ModTime().UTC()
}

// syncGalleryMedia stages media additions and removals for one gallery.
// Nothing is committed here; the caller flushes the whole pass at once.
func (s *Scanner) syncGalleryMedia(dir galleryDir) (int, int, error) {
	gallery := dir.gallery

	entries, err := os.ReadDir(filepath.Join(s.mediaRoot, dir.dirName))
	if err != nil {
		if !os.IsNotExist(err) {
			return 0, 0, fmt.Errorf("failed to read gallery directory %q: %w", dir.dirName, err)
		}
		entries = nil
	}

	fsPaths := make(map[string]string) // lowercased relative path -> file name as on disk
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !s.exts.Supported(filepath.Ext(entry.Name())) {
			continue
		}
		relPath := filepath.Join(gallery.Path, entry.Name())
		fsPaths[strings.ToLower(relPath)] = entry.Name()
	}

	dbPaths := make(map[string]bool, len(gallery.Media))
	var removed []*catalog.Media
	for i := range gallery.Media {
		m := &gallery.Media[i]
		lower := strings.ToLower(m.Path)
		dbPaths[lower] = true
		if _, onDisk := fsPaths[lower]; !onDisk {
			removed = append(removed, m)
		}
	}

	var added int
	for lower, fileName := range fsPaths {
		if dbPaths[lower] {
			continue
		}

		info, err := os.Stat(filepath.Join(s.mediaRoot, dir.dirName, fileName))
		if err != nil {
			logging.Warn("Skipping %s, stat failed: %v", fileName, err)
			continue
		}

		ext := filepath.Ext(fileName)
		s.store.AddMedia(&catalog.Media{
			Path:        filepath.Join(gallery.Path, fileName),
			ContentType: mediatypes.GetMimeType(ext),
			FileSize:    info.Size(),
			Type:        s.exts.TypeFor(ext),
			CreatedAt:   time.Now().UTC(),
			GalleryID:   gallery.ID,
		})
		added++
	}

	if len(removed) > 0 {
		s.store.RemoveMedia(removed)
	}

	return added, len(removed), nil
}

func (s *Scanner) publish(p Progress) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ProgressMethod, p)
}
