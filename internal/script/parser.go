package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devomil/pinehill-video/internal/config"
)

// Speaking rate used for every duration estimate in the pipeline.
const wordsPerMinute = 150.0

// The parser runs three strategies in order, each a fallback for the
// previous one:
//  1. explicit-marker parse: normalize the many header spellings LLMs emit
//     to one canonical bracketed marker per type, then split on markers;
//  2. regex fallback: a single greedy "marker to next marker" pattern;
//  3. structural inference: no markers at all, distribute paragraphs (or
//     sentences) across the five canonical types and backfill gaps.
//
// ParseScript never fails for malformed input: the result carries a validity
// flag and messages instead so the caller can still preview the render.
func ParseScript(raw string, targetDuration float64, platform config.Platform) *ParsedScript {
	spec := config.SpecFor(platform)
	parsed := &ParsedScript{
		Platform: platform,
		Width:    spec.Width,
		Height:   spec.Height,
	}

	if strings.TrimSpace(raw) == "" {
		parsed.Errors = append(parsed.Errors, "script text is empty")
		return parsed
	}

	bodies := parseMarkers(raw)
	if len(bodies) < 2 {
		bodies = parseRegexFallback(raw)
	}

	inferred := false
	if len(bodies) == 0 {
		bodies = inferStructure(raw)
		inferred = true
		parsed.Errors = append(parsed.Errors, "no section markers found; structure inferred from text layout")
	}

	// Собираем секции строго в каноническом порядке, независимо от того,
	// в каком порядке они шли в исходном тексте.
	for i, t := range CanonicalOrder {
		body, ok := bodies[t]
		if !ok || strings.TrimSpace(body) == "" {
			if !inferred {
				parsed.Errors = append(parsed.Errors, fmt.Sprintf("missing %s section", t))
				continue
			}
			body = stockSentences[t]
		}
		sec := Section{
			ID:       fmt.Sprintf("section-%d-%s", i+1, t),
			Type:     t,
			Title:    defaultTitles[t],
			Body:     strings.TrimSpace(body),
			Inferred: inferred,
		}
		if inferred {
			sec.Duration = durationRanges[t].Default
		} else {
			sec.Duration = estimateDuration(sec.Body, t)
		}
		parsed.Sections = append(parsed.Sections, sec)
	}

	// Только выведенные секции принудительно масштабируются под запрошенную
	// длительность; для явных доверяем оценке по тексту.
	if inferred && targetDuration > 0 {
		sum := 0.0
		for _, s := range parsed.Sections {
			sum += s.Duration
		}
		if sum > 0 {
			scale := targetDuration / sum
			for i := range parsed.Sections {
				parsed.Sections[i].Duration *= scale
			}
		}
	}

	layoutTimes(parsed)
	parsed.IsValid = len(parsed.Sections) == len(CanonicalOrder)
	return parsed
}

// layoutTimes assigns StartTime/EndTime by a single forward pass. The total
// is the final cumulative value, not necessarily the caller's request.
func layoutTimes(p *ParsedScript) {
	cursor := 0.0
	for i := range p.Sections {
		p.Sections[i].StartTime = cursor
		cursor += p.Sections[i].Duration
		p.Sections[i].EndTime = cursor
	}
	p.TotalDuration = cursor
}

// estimateDuration derives seconds from word count at the standard speaking
// rate, clamped to the per-type [min, 2*max] range.
func estimateDuration(body string, t SectionType) float64 {
	r := durationRanges[t]
	d := float64(len(strings.Fields(body))) / wordsPerMinute * 60.0
	if d < r.Min {
		d = r.Min
	}
	if d > 2*r.Max {
		d = 2 * r.Max
	}
	return d
}

//---------------------------------------------------------
// Стратегия 1: явные маркеры
//---------------------------------------------------------

var (
	// Все варианты написания заголовков секций, которые встречаются в
	// сгенерированных сценариях: **[HOOK - 0:00-0:05]**, [HOOK], ## HOOK,
	// HOOK: и т.д.
	markerBold    = regexp.MustCompile(`(?i)\*\*\s*\[?\s*(hook|problem|solution|social[ _-]?proof|call[ -]?to[ -]?action|cta)\b[^\]\n*]*\]?\s*\*\*`)
	markerHeading = regexp.MustCompile(`(?im)^\s*#{1,6}\s*(hook|problem|solution|social[ _-]?proof|call[ -]?to[ -]?action|cta)\b.*$`)
	markerBracket = regexp.MustCompile(`(?i)\[\s*(hook|problem|solution|social[ _-]?proof|call[ -]?to[ -]?action|cta)\b[^\]]*\]`)
	markerColon   = regexp.MustCompile(`(?im)^\s*(hook|problem|solution|social[ _-]?proof|call[ -]?to[ -]?action|cta)\s*:`)

	canonicalMarker = regexp.MustCompile(`\[(HOOK|PROBLEM|SOLUTION|SOCIAL_PROOF|CTA)\]`)

	timingNoise   = regexp.MustCompile(`\(?\b\d{1,2}:\d{2}(\s*[-–—]\s*\d{1,2}:\d{2})?\)?`)
	markdownNoise = regexp.MustCompile("[*_`#>]+")
)

// canonicalType maps any recognized marker spelling to its section type.
func canonicalType(raw string) SectionType {
	key := strings.ToLower(raw)
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	switch key {
	case "hook":
		return SectionHook
	case "problem":
		return SectionProblem
	case "solution":
		return SectionSolution
	case "social proof":
		return SectionSocialProof
	case "cta", "call to action":
		return SectionCTA
	}
	return ""
}

func toCanonical(t SectionType) string {
	return "[" + strings.ToUpper(string(t)) + "]"
}

// parseMarkers normalizes every marker spelling to [TYPE] and splits the
// text on those markers, keeping the first-seen body per type.
func parseMarkers(raw string) map[SectionType]string {
	normalized := raw
	for _, re := range []*regexp.Regexp{markerBold, markerHeading, markerBracket, markerColon} {
		normalized = re.ReplaceAllStringFunc(normalized, func(m string) string {
			sub := re.FindStringSubmatch(m)
			t := canonicalType(sub[1])
			if t == "" {
				return m
			}
			return toCanonical(t)
		})
	}

	locs := canonicalMarker.FindAllStringSubmatchIndex(normalized, -1)
	bodies := make(map[SectionType]string)
	for i, loc := range locs {
		t := canonicalType(normalized[loc[2]:loc[3]])
		if t == "" {
			continue
		}
		if _, seen := bodies[t]; seen {
			continue
		}
		end := len(normalized)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := cleanBody(normalized[loc[1]:end])
		if body != "" {
			bodies[t] = body
		}
	}
	return bodies
}

// cleanBody strips residual timing annotations and markdown noise.
func cleanBody(s string) string {
	s = timingNoise.ReplaceAllString(s, "")
	s = markdownNoise.ReplaceAllString(s, "")
	lines := strings.Split(s, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

//---------------------------------------------------------
// Стратегия 2: жадный regex
//---------------------------------------------------------

// fallbackMarker matches a type keyword at the start of a line; the body is
// everything until the next such marker or end of string.
var fallbackMarker = regexp.MustCompile(`(?im)^\s*\W{0,3}(hook|problem|solution|social[ _-]?proof|call[ -]?to[ -]?action|cta)\b[^\w\n]*`)

func parseRegexFallback(raw string) map[SectionType]string {
	locs := fallbackMarker.FindAllStringSubmatchIndex(raw, -1)
	bodies := make(map[SectionType]string)
	for i, loc := range locs {
		t := canonicalType(raw[loc[2]:loc[3]])
		if t == "" {
			continue
		}
		if _, seen := bodies[t]; seen {
			continue
		}
		end := len(raw)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := cleanBody(raw[loc[1]:end])
		if body != "" {
			bodies[t] = body
		}
	}
	return bodies
}

//---------------------------------------------------------
// Стратегия 3: структурный вывод
//---------------------------------------------------------

var (
	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
	sentenceSplit  = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)
)

// inferStructure distributes paragraph (or sentence) chunks evenly across
// the five canonical types in fixed order.
func inferStructure(raw string) map[SectionType]string {
	var chunks []string
	for _, p := range paragraphSplit.Split(raw, -1) {
		if strings.TrimSpace(p) != "" {
			chunks = append(chunks, strings.TrimSpace(p))
		}
	}
	if len(chunks) <= 1 {
		chunks = nil
		for _, s := range sentenceSplit.FindAllString(raw, -1) {
			if strings.TrimSpace(s) != "" {
				chunks = append(chunks, strings.TrimSpace(s))
			}
		}
	}

	bodies := make(map[SectionType]string)
	n := len(chunks)
	if n == 0 {
		return bodies
	}
	for i, chunk := range chunks {
		t := CanonicalOrder[i*len(CanonicalOrder)/n]
		if bodies[t] == "" {
			bodies[t] = cleanBody(chunk)
		} else {
			bodies[t] += " " + cleanBody(chunk)
		}
	}
	return bodies
}
