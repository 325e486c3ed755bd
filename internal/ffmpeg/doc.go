// Package ffmpeg wraps the ffmpeg and ffprobe binaries behind a narrow
// probe/extract interface for video thumbnail generation.
//
// The thumbnail pipeline only needs two operations: measure a video's
// duration, and pull one frame at an offset as PNG bytes. Anything capable
// of both can replace this package without touching the pipeline.
package ffmpeg
