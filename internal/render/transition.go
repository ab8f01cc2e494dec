package render

import "github.com/devomil/pinehill-video/internal/timeline"

// TransitionAlpha computes the frame's overall opacity multiplier: the
// minimum of two independent triangular ramps, "time since section start"
// against the in-duration and "time until section end" against the
// out-duration. At t == StartTime the result is exactly 0; strictly inside
// [StartTime+in, EndTime-out] it is exactly 1.
func TransitionAlpha(sec *timeline.Section, t float64) float64 {
	alpha := 1.0

	if sec.In.Kind != timeline.TransitionNone && sec.In.Duration > 0 {
		in := clamp01((t - sec.StartTime) / sec.In.Duration)
		if in < alpha {
			alpha = in
		}
	}
	if sec.Out.Kind != timeline.TransitionNone && sec.Out.Duration > 0 {
		out := clamp01((sec.EndTime - t) / sec.Out.Duration)
		if out < alpha {
			alpha = out
		}
	}
	return alpha
}
