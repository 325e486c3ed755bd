// Package mediatypes classifies media files by extension.
//
// A file is either an image or a video; which is decided by two configured,
// case-insensitive extension sets. Anything outside both sets is not a media
// file and is filtered out before classification.
//
// Supported by default:
//   - Images: jpg, jpeg, png, gif, webp, svg, bmp, avif, jxl, tiff, tif, ico, heic, heif
//   - Videos: mp4, webm, mov, avi, mkv, wmv, m4v
package mediatypes
