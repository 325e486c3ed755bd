package mediatypes

import "strings"

// MediaType represents the classification of a media file.
type MediaType string

const (
	// TypeImage represents a still image file.
	TypeImage MediaType = "image"
	// TypeVideo represents a video file.
	TypeVideo MediaType = "video"
)

// DefaultImageExtensions lists the image extensions supported out of the box.
var DefaultImageExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".bmp",
	".avif", ".jxl", ".tiff", ".tif", ".ico", ".heic", ".heif",
}

// DefaultVideoExtensions lists the video extensions supported out of the box.
var DefaultVideoExtensions = []string{
	".mp4", ".webm", ".mov", ".avi", ".mkv", ".wmv", ".m4v",
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".bmp":  "image/bmp",
	".avif": "image/avif",
	".jxl":  "image/jxl",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".ico":  "image/x-icon",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".wmv":  "video/x-ms-wmv",
	".m4v":  "video/x-m4v",
}

// Extensions classifies file extensions against configured image and video
// extension sets. Matching is case-insensitive; the sets are lowercased once
// at construction.
type Extensions struct {
	image map[string]bool
	video map[string]bool
}

// NewExtensions builds an Extensions classifier from two extension lists.
// Entries must include the leading dot (e.g. ".jpg"). Empty lists fall back
// to the package defaults.
func NewExtensions(imageExts, videoExts []string) Extensions {
	if len(imageExts) == 0 {
		imageExts = DefaultImageExtensions
	}
	if len(videoExts) == 0 {
		videoExts = DefaultVideoExtensions
	}
	e := Extensions{
		image: make(map[string]bool, len(imageExts)),
		video: make(map[string]bool, len(videoExts)),
	}
	for _, ext := range imageExts {
		e.image[strings.ToLower(ext)] = true
	}
	for _, ext := range videoExts {
		e.video[strings.ToLower(ext)] = true
	}
	return e
}

// Default returns an Extensions classifier over the default extension sets.
func Default() Extensions {
	return NewExtensions(nil, nil)
}

// Supported returns true if the extension belongs to either configured set.
func (e Extensions) Supported(ext string) bool {
	ext = strings.ToLower(ext)
	return e.image[ext] || e.video[ext]
}

// TypeFor classifies a supported extension as image or video. Callers must
// filter with Supported first: an extension in neither set classifies as
// TypeImage, matching the "image unless known video" rule.
func (e Extensions) TypeFor(ext string) MediaType {
	if e.video[strings.ToLower(ext)] {
		return TypeVideo
	}
	return TypeImage
}

// GetMimeType returns the MIME type for a file extension, matched
// case-insensitively. Returns "application/octet-stream" if the extension
// is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
