// Package thumbnail generates and serves preview images for catalog media.
//
// Thumbnails are written under a cache root mirroring the gallery layout and
// named by media ID. The output format is decided once per process: AVIF
// when libvips can encode it, JPEG otherwise, so a cache can hold a mix of
// both and lookups always try both extensions. A background Sweeper
// continuously fills in whatever the cache is missing.
package thumbnail
