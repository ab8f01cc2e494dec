package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devomil/pinehill-video/internal/config"
)

// Check is one named validation with a human-readable message.
type Check struct {
	Name    string
	Passed  bool
	Message string
}

// ValidationReport is advisory: a failed report still renders, the UI only
// shows warnings.
type ValidationReport struct {
	Passed bool
	Checks []Check
}

var (
	secondPerson = regexp.MustCompile(`(?i)\byou(r|rs)?\b`)

	benefitKeywords = []string{
		"save", "easy", "fast", "simple", "free", "better", "improve",
		"boost", "help", "grow", "reduce", "natural", "organic", "proven",
	}
	bulletGlyphs = []string{"•", "✓", "✔", "- ", "– "}

	actionVerbs = []string{
		"order", "buy", "shop", "visit", "call", "click", "subscribe",
		"sign", "join", "get", "start", "try", "download", "book", "claim",
	}
)

// ValidateScript runs five independent named checks against a compiled
// script. Passed is the logical AND of all checks.
func ValidateScript(p *ParsedScript) ValidationReport {
	var report ValidationReport

	// 1. Все пять типов секций на месте.
	missing := []string{}
	for _, t := range CanonicalOrder {
		if p.Section(t) == nil {
			missing = append(missing, string(t))
		}
	}
	report.Checks = append(report.Checks, Check{
		Name:    "sections",
		Passed:  len(missing) == 0,
		Message: sectionsMessage(missing),
	})

	// 2. Хук задаёт вопрос или обращается ко зрителю.
	hookOK := false
	if hook := p.Section(SectionHook); hook != nil {
		text := hook.Title + " " + hook.Body
		hookOK = strings.Contains(text, "?") || secondPerson.MatchString(text)
	}
	report.Checks = append(report.Checks, Check{
		Name:    "hook",
		Passed:  hookOK,
		Message: checkMessage(hookOK, "hook asks a question or addresses the viewer", "hook should ask a question or address the viewer directly"),
	})

	// 3. Решение называет хотя бы одну выгоду.
	solutionOK := false
	if sol := p.Section(SectionSolution); sol != nil {
		solutionOK = containsAny(strings.ToLower(sol.Body), benefitKeywords) || containsAny(sol.Body, bulletGlyphs)
	}
	report.Checks = append(report.Checks, Check{
		Name:    "solution",
		Passed:  solutionOK,
		Message: checkMessage(solutionOK, "solution lists at least one benefit", "solution should list concrete benefits or bullet points"),
	})

	// 4. CTA содержит глагол действия.
	ctaOK := false
	if cta := p.Section(SectionCTA); cta != nil {
		ctaOK = containsAnyWord(strings.ToLower(cta.Body), actionVerbs)
	}
	report.Checks = append(report.Checks, Check{
		Name:    "cta",
		Passed:  ctaOK,
		Message: checkMessage(ctaOK, "call to action contains an action verb", "call to action should tell the viewer what to do (order, visit, call...)"),
	})

	// 5. Общая длительность в границах площадки.
	spec := config.SpecFor(p.Platform)
	durOK := p.TotalDuration >= spec.MinDuration && p.TotalDuration <= spec.MaxDuration
	report.Checks = append(report.Checks, Check{
		Name:   "duration",
		Passed: durOK,
		Message: fmt.Sprintf("total duration %.1fs (platform allows %.0f-%.0fs)",
			p.TotalDuration, spec.MinDuration, spec.MaxDuration),
	})

	report.Passed = true
	for _, c := range report.Checks {
		report.Passed = report.Passed && c.Passed
	}
	return report
}

func sectionsMessage(missing []string) string {
	if len(missing) == 0 {
		return "all five sections present"
	}
	return "missing sections: " + strings.Join(missing, ", ")
}

func checkMessage(ok bool, good, bad string) string {
	if ok {
		return good
	}
	return bad
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func containsAnyWord(s string, words []string) bool {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z')
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
