package thumbnail

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"

	"vibe-gallery/internal/logging"
)

const (
	maxDimension = 300
	quality      = 63
)

// Known thumbnail extensions, preferred format first. Lookups must try both
// because the on-disk format depends on which encoder the host supports.
var knownExtensions = []string{".avif", ".jpg"}

// An Encoder serializes a decoded image into one concrete thumbnail format.
type Encoder interface {
	Encode(img image.Image) ([]byte, error)
	Extension() string
	ContentType() string
}

// Codec resizes images and encodes them in the best format the host
// supports. The format is chosen once per process: a trial AVIF encode
// decides between AVIF and the JPEG fallback.
type Codec struct {
	primary  Encoder
	fallback Encoder

	detectOnce sync.Once
	active     Encoder
}

// NewCodec returns a Codec with AVIF as the primary format and JPEG as the
// fallback.
func NewCodec() *Codec {
	return &Codec{
		primary:  avifEncoder{},
		fallback: jpegEncoder{},
	}
}

func newCodecWith(primary, fallback Encoder) *Codec {
	return &Codec{primary: primary, fallback: fallback}
}

func (c *Codec) detect() {
	c.detectOnce.Do(func() {
		trial := image.NewRGBA(image.Rect(0, 0, 8, 8))
		data, err := c.primary.Encode(trial)
		if err == nil && len(data) > 0 {
			c.active = c.primary
			logging.Info("Thumbnail format: %s", c.primary.Extension())
			return
		}
		c.active = c.fallback
		logging.Warn("Primary thumbnail encoder unavailable (%v), falling back to %s",
			err, c.fallback.Extension())
	})
}

// Extension returns the file extension of the chosen format, dot included.
func (c *Codec) Extension() string {
	c.detect()
	return c.active.Extension()
}

// ContentType returns the MIME type of the chosen format.
func (c *Codec) ContentType() string {
	c.detect()
	return c.active.ContentType()
}

// Resize scales img down so its longest side is at most maxDimension,
// preserving aspect ratio. Images already within bounds pass through
// untouched, so small originals are never upscaled.
func (c *Codec) Resize(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDimension && h <= maxDimension {
		return img
	}
	if w >= h {
		return imaging.Resize(img, maxDimension, 0, imaging.Linear)
	}
	return imaging.Resize(img, 0, maxDimension, imaging.Linear)
}

// EncodeThumbnail resizes img and encodes it in the chosen format.
func (c *Codec) EncodeThumbnail(img image.Image) ([]byte, error) {
	c.detect()
	return c.active.Encode(c.Resize(img))
}

type avifEncoder struct{}

func (avifEncoder) Extension() string   { return ".avif" }
func (avifEncoder) ContentType() string { return "image/avif" }

func (avifEncoder) Encode(img image.Image) ([]byte, error) {
	// vips loads from an encoded buffer, so round-trip through lossless PNG.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to prepare image for avif encode: %w", err)
	}

	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("vips failed to load image: %w", err)
	}
	defer ref.Close()

	params := vips.NewAvifExportParams()
	params.Quality = quality

	data, _, err := ref.ExportAvif(params)
	if err != nil {
		return nil, fmt.Errorf("avif encode failed: %w", err)
	}
	return data, nil
}

type jpegEncoder struct{}

func (jpegEncoder) Extension() string   { return ".jpg" }
func (jpegEncoder) ContentType() string { return "image/jpeg" }

func (jpegEncoder) Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
