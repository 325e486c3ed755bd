package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"vibe-gallery/internal/logging"
)

// Prober probes and extracts still frames from video files using the ffprobe
// and ffmpeg binaries found on PATH.
type Prober struct{}

// New returns a Prober backed by the system ffmpeg/ffprobe binaries.
func New() *Prober {
	return &Prober{}
}

// Available reports whether both ffmpeg and ffprobe can be found on PATH.
func (p *Prober) Available() bool {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return false
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		return false
	}
	return true
}

// Probe returns the duration of the video at path.
func (p *Prober) Probe(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe error: %w - %s", err, stderr.String())
	}

	durStr := strings.TrimSpace(stdout.String())
	seconds, err := strconv.ParseFloat(durStr, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe returned unparseable duration %q: %w", durStr, err)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}

// ExtractFrame extracts a single frame at the given offset as PNG bytes,
// piped through memory rather than a temp file.
func (p *Prober) ExtractFrame(ctx context.Context, path string, offset time.Duration) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-ss", fmt.Sprintf("%.3f", offset.Seconds()),
		"-i", path,
		"-vframes", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w - %s", err, stderr.String())
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", path)
	}

	logging.Debug("Extracted frame from %s at %v (%d bytes)", path, offset, stdout.Len())
	return stdout.Bytes(), nil
}
