package video

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// AudioDuration returns the narration length in seconds via ffprobe. The
// subtitle generator rescales its estimated timings to this value.
func AudioDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe error: %v, output: %s", err, string(out))
	}

	var duration float64
	if _, err := fmt.Sscanf(strings.TrimSpace(string(out)), "%f", &duration); err != nil {
		return 0, err
	}
	return duration, nil
}

// HasEncoder reports whether the local ffmpeg build carries the encoder.
// Checked before a render so a missing libvpx fails fast, not mid-encode.
func HasEncoder(ctx context.Context, name string) bool {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-encoders")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return false
	}
	return strings.Contains(string(out), name)
}
