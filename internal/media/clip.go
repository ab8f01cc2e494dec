package media

import (
	"image"
	"math"
)

// Clip is a looping video clip pre-sampled to an in-memory frame ring. The
// frame loop only ever samples whichever frame corresponds to the current
// wall-clock offset; it never advances the clip itself.
type Clip struct {
	frames []image.Image
	fps    float64
}

// NewClip wraps extracted frames at the given sampling rate.
func NewClip(frames []image.Image, fps float64) *Clip {
	if fps <= 0 {
		fps = 30
	}
	return &Clip{frames: frames, fps: fps}
}

// FrameAt returns the clip frame for time t, looping past the clip's end.
func (c *Clip) FrameAt(t float64) image.Image {
	if c == nil || len(c.frames) == 0 {
		return nil
	}
	if t < 0 || math.IsNaN(t) {
		t = 0
	}
	idx := int(t*c.fps) % len(c.frames)
	return c.frames[idx]
}

// FrameCount returns the number of buffered frames.
func (c *Clip) FrameCount() int {
	if c == nil {
		return 0
	}
	return len(c.frames)
}

// Duration returns the length of one loop in seconds.
func (c *Clip) Duration() float64 {
	if c == nil || c.fps == 0 {
		return 0
	}
	return float64(len(c.frames)) / c.fps
}
