package thumbnail

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/logging"
	"vibe-gallery/internal/mediatypes"
	"vibe-gallery/internal/metrics"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PlaceholderSVG is served when a media item has no thumbnail on disk yet.
//
//go:embed placeholder.svg
var PlaceholderSVG []byte

const placeholderContentType = "image/svg+xml"

// A FrameExtractor supplies a poster frame for video files.
type FrameExtractor interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
	ExtractFrame(ctx context.Context, path string, offset time.Duration) ([]byte, error)
}

// Thumbnailer generates and locates thumbnails on disk. Thumbnails live
// under thumbRoot mirroring the gallery layout, named by media ID.
type Thumbnailer struct {
	mediaRoot string
	thumbRoot string
	codec     *Codec
	frames    FrameExtractor
}

func NewThumbnailer(mediaRoot, thumbRoot string, codec *Codec, frames FrameExtractor) *Thumbnailer {
	if err := os.MkdirAll(thumbRoot, 0755); err != nil {
		logging.Warn("Failed to create thumbnail root %s: %v", thumbRoot, err)
	}
	return &Thumbnailer{
		mediaRoot: mediaRoot,
		thumbRoot: thumbRoot,
		codec:     codec,
		frames:    frames,
	}
}

func (t *Thumbnailer) thumbPath(mediaID int64, galleryPath, ext string) string {
	return filepath.Join(t.thumbRoot, galleryPath, fmt.Sprintf("%d%s", mediaID, ext))
}

// Exists reports whether a thumbnail for the media item is already on disk,
// in either known format.
func (t *Thumbnailer) Exists(mediaID int64, galleryPath string) bool {
	for _, ext := range knownExtensions {
		if _, err := os.Stat(t.thumbPath(mediaID, galleryPath, ext)); err == nil {
			return true
		}
	}
	return false
}

// Path returns the on-disk path and content type of the media item's
// thumbnail. When none exists yet it reports a placeholder instead, with an
// empty path; callers serve PlaceholderSVG and never get a miss for a known
// item.
func (t *Thumbnailer) Path(mediaID int64, galleryPath string) (path, contentType string, placeholder bool) {
	for _, ext := range knownExtensions {
		p := t.thumbPath(mediaID, galleryPath, ext)
		if _, err := os.Stat(p); err == nil {
			return p, contentTypeFor(ext), false
		}
	}
	return "", placeholderContentType, true
}

func contentTypeFor(ext string) string {
	if ext == ".avif" {
		return "image/avif"
	}
	return "image/jpeg"
}

// Generate produces a thumbnail for the media item and writes it to disk.
// Video items get a frame at 10% of their duration; everything else is
// decoded as an image.
func (t *Thumbnailer) Generate(ctx context.Context, m catalog.MediaWithGallery) error {
	start := time.Now()
	typeLabel := string(m.Type)

	err := t.generate(ctx, m)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(typeLabel, "error").Inc()
		return err
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(typeLabel, "success").Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(typeLabel).Observe(time.Since(start).Seconds())
	return nil
}

func (t *Thumbnailer) generate(ctx context.Context, m catalog.MediaWithGallery) error {
	sourcePath := filepath.Join(t.mediaRoot, m.Path)

	var img image.Image
	var err error
	if m.Type == mediatypes.TypeVideo {
		img, err = t.decodeVideoFrame(ctx, sourcePath)
	} else {
		img, err = imaging.Open(sourcePath, imaging.AutoOrientation(true))
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", m.Path, err)
	}

	data, err := t.codec.EncodeThumbnail(img)
	if err != nil {
		return fmt.Errorf("failed to encode thumbnail for %s: %w", m.Path, err)
	}

	destPath := t.thumbPath(m.ID, m.GalleryPath, t.codec.Extension())
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write thumbnail %s: %w", destPath, err)
	}

	logging.Debug("Thumbnail written: %s (%d bytes)", destPath, len(data))
	return nil
}

func (t *Thumbnailer) decodeVideoFrame(ctx context.Context, sourcePath string) (image.Image, error) {
	if t.frames == nil {
		return nil, fmt.Errorf("no frame extractor configured")
	}

	duration, err := t.frames.Probe(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("probe failed: %w", err)
	}

	frame, err := t.frames.ExtractFrame(ctx, sourcePath, duration/10)
	if err != nil {
		return nil, fmt.Errorf("frame extraction failed: %w", err)
	}

	return imaging.Decode(bytes.NewReader(frame))
}

// Delete removes the media item's thumbnail in whichever format it exists.
// Missing files are fine; deletion is idempotent.
func (t *Thumbnailer) Delete(mediaID int64, galleryPath string) {
	for _, ext := range knownExtensions {
		p := t.thumbPath(mediaID, galleryPath, ext)
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logging.Warn("Failed to remove thumbnail %s: %v", p, err)
		}
	}
}

// DeleteGallery removes the gallery's entire thumbnail directory.
func (t *Thumbnailer) DeleteGallery(galleryPath string) {
	if galleryPath == "" {
		return
	}
	dir := filepath.Join(t.thumbRoot, galleryPath)
	if err := os.RemoveAll(dir); err != nil {
		logging.Warn("Failed to remove thumbnail directory %s: %v", dir, err)
	}
}
