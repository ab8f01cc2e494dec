// Package timeline compiles a parsed script plus attached media into a
// frame-level render plan: contiguous sections carrying positioned, styled,
// time-bounded animated elements.
package timeline

import (
	"image"

	"github.com/devomil/pinehill-video/internal/script"
)

// ElementKind is the closed set of visual primitives.
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementSubtitle
	ElementImage
	ElementShape
	ElementLogo
)

// ShapeKind narrows ElementShape to the decorations the templates emit.
type ShapeKind int

const (
	ShapeNone ShapeKind = iota
	ShapeUnderline
	ShapeCheckmark
	ShapeCTAButton
)

// AnimKind is the closed set of entry/exit animation curves.
type AnimKind int

const (
	AnimNone AnimKind = iota
	AnimFade
	AnimSlideLeft
	AnimSlideRight
	AnimSlideUp
	AnimSlideDown
	AnimScale
)

// Animation pairs a kind with its duration in seconds.
type Animation struct {
	Kind     AnimKind
	Duration float64
}

// Element is a value object fully owned by its section; elements are
// recreated whenever the timeline is rebuilt, never mutated in place.
// Positions and sizes are fractions of the frame so one template serves
// every platform resolution.
type Element struct {
	Kind      ElementKind
	Shape     ShapeKind
	Text      string
	Image     image.Image // payload for image/logo elements (e.g. the CTA QR)
	X, Y      float64     // anchor position, fraction of frame
	AnchorX   float64     // 0 left, 0.5 center, 1 right
	Width     float64     // fraction of frame width (shapes, images)
	FontScale float64     // font size as fraction of frame height
	Bold      bool
	Color     string // hex
	StartTime float64 // section-relative seconds
	EndTime   float64
	Entry     Animation
	Exit      Animation
}

// BackgroundKind selects the background paint path for a section.
type BackgroundKind int

const (
	BackgroundGradient BackgroundKind = iota
	BackgroundSolid
	BackgroundImage
)

// Background describes a section's backdrop. When Kind is BackgroundImage
// the actual still or clip is resolved through the attachment map at render
// time, re-checked every frame so late decode failures demote gracefully.
type Background struct {
	Kind  BackgroundKind
	Theme Theme
}

// TransitionKind is descriptive; compositing is always an opacity ramp.
type TransitionKind int

const (
	TransitionNone TransitionKind = iota
	TransitionFade
)

type Transition struct {
	Kind     TransitionKind
	Duration float64
}

// Section is the per-section render unit. Sections are contiguous and
// non-overlapping: Sections[i].EndTime == Sections[i+1].StartTime.
type Section struct {
	ID         string
	Type       script.SectionType
	StartTime  float64
	EndTime    float64
	Background Background
	Elements   []Element
	In         Transition
	Out        Transition
}

// Duration returns the section length in seconds.
func (s *Section) Duration() float64 {
	return s.EndTime - s.StartTime
}

// Timeline is the root render plan, treated as immutable by the frame loop.
type Timeline struct {
	Sections      []Section
	TotalDuration float64
	FPS           int
	Width         int
	Height        int
}

// SectionAt returns the active section for time t, or nil for a gap.
func (t *Timeline) SectionAt(at float64) *Section {
	for i := range t.Sections {
		if at >= t.Sections[i].StartTime && at < t.Sections[i].EndTime {
			return &t.Sections[i]
		}
	}
	return nil
}
