package script

import "github.com/devomil/pinehill-video/internal/config"

// SectionType is one of the five fixed narrative beats of a marketing script.
type SectionType string

const (
	SectionHook        SectionType = "hook"
	SectionProblem     SectionType = "problem"
	SectionSolution    SectionType = "solution"
	SectionSocialProof SectionType = "social_proof"
	SectionCTA         SectionType = "cta"
)

// CanonicalOrder is the fixed presentation order of sections, regardless of
// the order they appear in the source text.
var CanonicalOrder = []SectionType{
	SectionHook,
	SectionProblem,
	SectionSolution,
	SectionSocialProof,
	SectionCTA,
}

// Section is one compiled narrative beat. Created once by the compiler and
// immutable afterwards; only the timeline builder rescales its times.
type Section struct {
	ID        string
	Type      SectionType
	Title     string
	Body      string
	Duration  float64 // seconds
	StartTime float64
	EndTime   float64
	Inferred  bool // true when produced by structural inference, not markers
}

// ParsedScript is the compiler output. Malformed input still yields a script
// (IsValid=false plus messages) so the UI can preview a best-effort render.
type ParsedScript struct {
	Sections      []Section
	TotalDuration float64
	Platform      config.Platform
	Width         int
	Height        int
	IsValid       bool
	Errors        []string
}

// Section returns the section of the given type, or nil.
func (s *ParsedScript) Section(t SectionType) *Section {
	for i := range s.Sections {
		if s.Sections[i].Type == t {
			return &s.Sections[i]
		}
	}
	return nil
}

// durationRange is the allowed [min,max] seconds per section type. The
// estimator clamps to [Min, 2*Max].
type durationRange struct {
	Min     float64
	Max     float64
	Default float64 // used for inferred sections before rescaling
}

var durationRanges = map[SectionType]durationRange{
	SectionHook:        {Min: 3, Max: 8, Default: 4},
	SectionProblem:     {Min: 5, Max: 15, Default: 6},
	SectionSolution:    {Min: 8, Max: 20, Default: 8},
	SectionSocialProof: {Min: 5, Max: 15, Default: 6},
	SectionCTA:         {Min: 3, Max: 8, Default: 4},
}

var defaultTitles = map[SectionType]string{
	SectionHook:        "Hook",
	SectionProblem:     "The Problem",
	SectionSolution:    "The Solution",
	SectionSocialProof: "Social Proof",
	SectionCTA:         "Call To Action",
}

// stockSentences backfill section types that structural inference could not
// assign any text to.
var stockSentences = map[SectionType]string{
	SectionHook:        "What if there was a better way?",
	SectionProblem:     "Too many teams struggle with the same daily frustrations.",
	SectionSolution:    "Our products make it simple, fast, and affordable.",
	SectionSocialProof: "Thousands of happy customers already made the switch.",
	SectionCTA:         "Visit us today and see the difference.",
}
