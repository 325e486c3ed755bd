package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vibe-gallery/internal/catalog"
	"vibe-gallery/internal/mediatypes"
)

// stubExtractor returns a fixed PNG frame without touching the filesystem.
type stubExtractor struct {
	probed    bool
	offset    time.Duration
	extractFn func() ([]byte, error)
}

func (s *stubExtractor) Probe(_ context.Context, _ string) (time.Duration, error) {
	s.probed = true
	return 100 * time.Second, nil
}

func (s *stubExtractor) ExtractFrame(_ context.Context, _ string, offset time.Duration) ([]byte, error) {
	s.offset = offset
	return s.extractFn()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// jpegCodec returns a codec that skips the AVIF path, so tests never need
// libvips.
func jpegCodec() *Codec {
	return newCodecWith(&fakeEncoder{ext: ".avif", fail: true}, jpegEncoder{})
}

func newTestThumbnailer(t *testing.T, frames FrameExtractor) (*Thumbnailer, string, string) {
	t.Helper()
	mediaRoot := t.TempDir()
	thumbRoot := t.TempDir()
	return NewThumbnailer(mediaRoot, thumbRoot, jpegCodec(), frames), mediaRoot, thumbRoot
}

func imageMedia(id int64, galleryPath, path string) catalog.MediaWithGallery {
	return catalog.MediaWithGallery{
		Media: catalog.Media{
			ID:   id,
			Path: path,
			Type: mediatypes.TypeImage,
		},
		GalleryPath: galleryPath,
	}
}

func TestGenerateImageThumbnail(t *testing.T) {
	thumbs, mediaRoot, thumbRoot := newTestThumbnailer(t, nil)

	src := filepath.Join(mediaRoot, "album", "photo.png")
	if err := os.MkdirAll(filepath.Dir(src), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(src, pngBytes(t, 800, 600), 0o644); err != nil {
		t.Fatalf("Failed to write source image: %v", err)
	}

	m := imageMedia(7, "album", filepath.Join("album", "photo.png"))
	if err := thumbs.Generate(context.Background(), m); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want := filepath.Join(thumbRoot, "album", "7.jpg")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("Expected thumbnail at %s: %v", want, err)
	}
	if !thumbs.Exists(7, "album") {
		t.Error("Expected Exists to report the new thumbnail")
	}
}

func TestGenerateVideoThumbnail(t *testing.T) {
	frames := &stubExtractor{extractFn: func() ([]byte, error) { return pngBytes(t, 640, 360), nil }}
	thumbs, _, thumbRoot := newTestThumbnailer(t, frames)

	m := catalog.MediaWithGallery{
		Media: catalog.Media{
			ID:   3,
			Path: filepath.Join("clips", "movie.mp4"),
			Type: mediatypes.TypeVideo,
		},
		GalleryPath: "clips",
	}

	if err := thumbs.Generate(context.Background(), m); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !frames.probed {
		t.Error("Expected the video to be probed for duration")
	}
	if frames.offset != 10*time.Second {
		t.Errorf("Expected frame at 10%% of duration (10s), got %v", frames.offset)
	}
	if _, err := os.Stat(filepath.Join(thumbRoot, "clips", "3.jpg")); err != nil {
		t.Errorf("Expected video thumbnail on disk: %v", err)
	}
}

func TestGenerateMissingSourceFails(t *testing.T) {
	thumbs, _, _ := newTestThumbnailer(t, nil)

	m := imageMedia(1, "album", filepath.Join("album", "missing.png"))
	if err := thumbs.Generate(context.Background(), m); err == nil {
		t.Error("Expected error for missing source file")
	}
}

func TestPathReturnsPlaceholderWhenMissing(t *testing.T) {
	thumbs, _, _ := newTestThumbnailer(t, nil)

	path, contentType, placeholder := thumbs.Path(42, "album")
	if !placeholder {
		t.Error("Expected placeholder for missing thumbnail")
	}
	if path != "" {
		t.Errorf("Expected empty path for placeholder, got %q", path)
	}
	if contentType != "image/svg+xml" {
		t.Errorf("Expected svg content type, got %q", contentType)
	}
	if len(PlaceholderSVG) == 0 {
		t.Error("Expected embedded placeholder to be non-empty")
	}
}

func TestPathFindsEitherExtension(t *testing.T) {
	thumbs, _, thumbRoot := newTestThumbnailer(t, nil)

	dir := filepath.Join(thumbRoot, "album")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "5.avif"), []byte("avif"), 0o644); err != nil {
		t.Fatalf("Failed to write thumbnail: %v", err)
	}

	path, contentType, placeholder := thumbs.Path(5, "album")
	if placeholder {
		t.Error("Expected existing thumbnail, got placeholder")
	}
	if filepath.Ext(path) != ".avif" {
		t.Errorf("Expected .avif path, got %q", path)
	}
	if contentType != "image/avif" {
		t.Errorf("Expected image/avif, got %q", contentType)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	thumbs, _, thumbRoot := newTestThumbnailer(t, nil)

	dir := filepath.Join(thumbRoot, "album")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "9.jpg"), []byte("jpg"), 0o644); err != nil {
		t.Fatalf("Failed to write thumbnail: %v", err)
	}

	thumbs.Delete(9, "album")
	if thumbs.Exists(9, "album") {
		t.Error("Expected thumbnail to be deleted")
	}

	// Second delete of a missing thumbnail must not blow up.
	thumbs.Delete(9, "album")
}

func TestDeleteGallery(t *testing.T) {
	thumbs, _, thumbRoot := newTestThumbnailer(t, nil)

	dir := filepath.Join(thumbRoot, "album")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "1.jpg"), []byte("jpg"), 0o644); err != nil {
		t.Fatalf("Failed to write thumbnail: %v", err)
	}

	thumbs.DeleteGallery("album")

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("Expected gallery thumbnail directory to be removed, got err=%v", err)
	}

	// An empty gallery path must never remove the whole thumbnail root.
	thumbs.DeleteGallery("")
	if _, err := os.Stat(thumbRoot); err != nil {
		t.Errorf("Expected thumbnail root to survive, got err=%v", err)
	}
}
