package script

import (
	"math"
	"testing"

	"github.com/devomil/pinehill-video/internal/config"
)

const markedScript = `
**[HOOK - 0:00-0:05]**
Tired of overpaying for supplements that don't work?

[PROBLEM]
Most brands hide cheap fillers behind fancy labels. You never know what you actually get.

## SOLUTION
Our formulas are lab-tested and organic.
- Save up to 40% with a subscription
- Easy one-click reorders

SOCIAL_PROOF: Over 12,000 customers rated us five stars last year.

CTA: Order now at https://pinehill.example and save 20%!
`

func TestParseScriptCanonicalOrder(t *testing.T) {
	// Секции в тексте перемешаны, на выходе порядок всегда канонический.
	shuffled := "[CTA]\nOrder today.\n[HOOK]\nDid you know?\n[SOLUTION]\nEasy and fast relief.\n[PROBLEM]\nEveryone struggles.\n[SOCIAL_PROOF]\nThousands agree."

	parsed := ParseScript(shuffled, 60, config.PlatformYouTube)
	if !parsed.IsValid {
		t.Fatalf("expected valid script, errors: %v", parsed.Errors)
	}
	if len(parsed.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(parsed.Sections))
	}
	for i, sec := range parsed.Sections {
		if sec.Type != CanonicalOrder[i] {
			t.Errorf("section %d: expected %s, got %s", i, CanonicalOrder[i], sec.Type)
		}
	}
}

func TestParseScriptTimingLayout(t *testing.T) {
	parsed := ParseScript(markedScript, 60, config.PlatformYouTube)

	if parsed.Sections[0].StartTime != 0 {
		t.Errorf("first section must start at 0, got %f", parsed.Sections[0].StartTime)
	}
	for i := 0; i < len(parsed.Sections)-1; i++ {
		if math.Abs(parsed.Sections[i].EndTime-parsed.Sections[i+1].StartTime) > 1e-9 {
			t.Errorf("sections %d/%d not contiguous: %f vs %f",
				i, i+1, parsed.Sections[i].EndTime, parsed.Sections[i+1].StartTime)
		}
	}
	last := parsed.Sections[len(parsed.Sections)-1]
	if math.Abs(last.EndTime-parsed.TotalDuration) > 1e-9 {
		t.Errorf("total duration %f != last end %f", parsed.TotalDuration, last.EndTime)
	}
}

func TestParseScriptDurationClamp(t *testing.T) {
	parsed := ParseScript(markedScript, 60, config.PlatformYouTube)
	for _, sec := range parsed.Sections {
		r := durationRanges[sec.Type]
		if sec.Duration < r.Min || sec.Duration > 2*r.Max {
			t.Errorf("%s duration %f outside [%f, %f]", sec.Type, sec.Duration, r.Min, 2*r.Max)
		}
	}
}

func TestParseStrategiesAgree(t *testing.T) {
	// Явный и regex-путь должны давать одни и те же типы в одном порядке.
	plain := "[HOOK]\nWhy wait?\n[PROBLEM]\nIt hurts.\n[SOLUTION]\nWe fix it.\n[SOCIAL_PROOF]\nAll agree.\n[CTA]\nBuy now."

	markers := parseMarkers(plain)
	fallback := parseRegexFallback(plain)

	if len(markers) != 5 || len(fallback) != 5 {
		t.Fatalf("expected 5 sections from both strategies, got %d and %d", len(markers), len(fallback))
	}
	for _, typ := range CanonicalOrder {
		if _, ok := markers[typ]; !ok {
			t.Errorf("marker strategy missing %s", typ)
		}
		if _, ok := fallback[typ]; !ok {
			t.Errorf("regex strategy missing %s", typ)
		}
	}
}

func TestParseScriptInference(t *testing.T) {
	// Сценарий без маркеров: структура выводится, пять секций всегда.
	raw := "Great coffee changes the whole morning.\n\nMost office coffee tastes burnt.\n\nOur beans are roasted weekly.\n\nCustomers keep coming back.\n\nStop by the shop today."

	parsed := ParseScript(raw, 30, config.PlatformTikTok)
	if len(parsed.Sections) != 5 {
		t.Fatalf("expected 5 inferred sections, got %d", len(parsed.Sections))
	}
	for _, sec := range parsed.Sections {
		if !sec.Inferred {
			t.Errorf("section %s should be marked inferred", sec.Type)
		}
	}

	// Выведенные секции масштабируются под запрошенную длительность.
	if math.Abs(parsed.TotalDuration-30) > 0.001 {
		t.Errorf("inferred script should rescale to 30s, got %f", parsed.TotalDuration)
	}

	spec := config.SpecFor(config.PlatformTikTok)
	if parsed.TotalDuration < spec.MinDuration || parsed.TotalDuration > spec.MaxDuration {
		t.Errorf("duration %f outside tiktok bounds [%f, %f]",
			parsed.TotalDuration, spec.MinDuration, spec.MaxDuration)
	}

	report := ValidateScript(parsed)
	for _, c := range report.Checks {
		if c.Name == "sections" && !c.Passed {
			t.Errorf("sections check must pass for inferred script: %s", c.Message)
		}
		if c.Name == "duration" && !c.Passed {
			t.Errorf("duration check must pass: %s", c.Message)
		}
	}
}

func TestParseScriptStockBackfill(t *testing.T) {
	// Трёх абзацев не хватает на пять типов: пропуски добираются заготовками.
	raw := "One paragraph.\n\nAnother paragraph.\n\nThird paragraph."
	parsed := ParseScript(raw, 20, config.PlatformInstagramFeed)

	if len(parsed.Sections) != 5 {
		t.Fatalf("expected 5 sections after backfill, got %d", len(parsed.Sections))
	}
	for _, sec := range parsed.Sections {
		if sec.Body == "" {
			t.Errorf("section %s has empty body after backfill", sec.Type)
		}
	}
}

func TestParseScriptEmptyInput(t *testing.T) {
	parsed := ParseScript("   \n\t ", 30, config.PlatformYouTube)
	if parsed.IsValid {
		t.Error("empty script must not be valid")
	}
	if len(parsed.Sections) != 0 {
		t.Errorf("empty script must have no sections, got %d", len(parsed.Sections))
	}
	if len(parsed.Errors) == 0 {
		t.Error("empty script must report an error message")
	}
}

func TestParseScriptMarkerSpellings(t *testing.T) {
	variants := "**[HOOK – 0:00-0:05]**\nReady?\n## Problem\nBad sleep.\nSOLUTION: Melatonin-free formula, easy wins.\n[social proof]\nLoved by many.\nCall to action: Visit us."

	parsed := ParseScript(variants, 45, config.PlatformLinkedIn)
	if len(parsed.Sections) != 5 {
		t.Fatalf("expected all 5 spellings recognized, got %d sections: %v", len(parsed.Sections), parsed.Errors)
	}
	hook := parsed.Section(SectionHook)
	if hook == nil || hook.Body != "Ready?" {
		t.Errorf("hook body should be cleaned of timing noise, got %q", hook.Body)
	}
}
