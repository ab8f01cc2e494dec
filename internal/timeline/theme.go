package timeline

import "github.com/devomil/pinehill-video/internal/script"

// Theme is the fixed two-color gradient plus accent for one narrative type.
// These are presentation constants, not computed.
type Theme struct {
	Top    string
	Bottom string
	Accent string
}

var themes = map[script.SectionType]Theme{
	script.SectionHook:        {Top: "#064E3B", Bottom: "#10B981", Accent: "#34D399"},
	script.SectionProblem:     {Top: "#0F172A", Bottom: "#475569", Accent: "#94A3B8"},
	script.SectionSolution:    {Top: "#065F46", Bottom: "#CA8A04", Accent: "#FACC15"},
	script.SectionSocialProof: {Top: "#1E3A8A", Bottom: "#3B82F6", Accent: "#93C5FD"},
	script.SectionCTA:         {Top: "#7F1D1D", Bottom: "#EF4444", Accent: "#FCA5A5"},
}

// ThemeFor returns the theme for a narrative type, defaulting to the
// problem slate for anything unknown.
func ThemeFor(t script.SectionType) Theme {
	if th, ok := themes[t]; ok {
		return th
	}
	return themes[script.SectionProblem]
}
