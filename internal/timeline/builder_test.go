package timeline

import (
	"image"
	"math"
	"strings"
	"testing"

	"github.com/devomil/pinehill-video/internal/config"
	"github.com/devomil/pinehill-video/internal/media"
	"github.com/devomil/pinehill-video/internal/script"
)

const builderScript = `[HOOK]
Tired of bland supermarket honey?

[PROBLEM]
Store shelves are full of blended syrup that never saw a hive.

[SOLUTION]
- Raw honey from our own apiary
- Bottled the week you order
- Free local delivery

[SOCIAL_PROOF]
Over 2,000 happy customers across the valley rate us five stars.

[CTA]
Order today! Visit https://pinehill.example.com for the full range.
`

func compile(t *testing.T) *script.ParsedScript {
	t.Helper()
	p := script.ParseScript(builderScript, 0, config.PlatformYouTube)
	if len(p.Sections) != 5 {
		t.Fatalf("expected 5 compiled sections, got %d", len(p.Sections))
	}
	return p
}

func TestBuildRescalePreservesProportions(t *testing.T) {
	p := compile(t)
	att := media.NewAttachments()

	tl := Build(p, att, BuildOptions{TargetDuration: 60, Width: 1920, Height: 1080, FPS: 30})
	if math.Abs(tl.TotalDuration-60) > 0.001 {
		t.Fatalf("total duration = %f, want 60", tl.TotalDuration)
	}

	// Пропорции секций должны совпадать с выложенным компилятором раскладом.
	for i, sec := range tl.Sections {
		src := p.Sections[i]
		want := src.Duration / p.TotalDuration * 60
		if math.Abs(sec.Duration()-want) > 0.001 {
			t.Errorf("section %s duration = %f, want %f", sec.Type, sec.Duration(), want)
		}
	}
}

func TestBuildSectionsContiguous(t *testing.T) {
	p := compile(t)
	tl := Build(p, media.NewAttachments(), BuildOptions{Width: 1080, Height: 1920, FPS: 30})

	if tl.Sections[0].StartTime != 0 {
		t.Errorf("first section starts at %f, want 0", tl.Sections[0].StartTime)
	}
	for i := 1; i < len(tl.Sections); i++ {
		if math.Abs(tl.Sections[i].StartTime-tl.Sections[i-1].EndTime) > 0.001 {
			t.Errorf("gap between sections %d and %d", i-1, i)
		}
	}
	if tl.TotalDuration != tl.Sections[len(tl.Sections)-1].EndTime {
		t.Error("total duration must equal the last section end")
	}
}

func TestBuildElementTemplates(t *testing.T) {
	p := compile(t)
	tl := Build(p, media.NewAttachments(), BuildOptions{Width: 1920, Height: 1080, FPS: 30})

	for _, sec := range tl.Sections {
		if !hasKind(sec.Elements, ElementLogo) {
			t.Errorf("%s: wordmark logo missing", sec.Type)
		}

		label := findLabel(sec.Elements)
		switch sec.Type {
		case script.SectionHook:
			if label != nil {
				t.Error("hook must not carry a type label")
			}
			if !hasShape(sec.Elements, ShapeUnderline) {
				t.Error("hook underline missing")
			}
		case script.SectionSolution:
			if label == nil {
				t.Error("solution label missing")
			}
			if countShape(sec.Elements, ShapeCheckmark) != 3 {
				t.Errorf("solution checkmarks = %d, want 3",
					countShape(sec.Elements, ShapeCheckmark))
			}
		case script.SectionCTA:
			if !hasShape(sec.Elements, ShapeCTAButton) {
				t.Error("cta button missing")
			}
		default:
			if label == nil {
				t.Errorf("%s: type label missing", sec.Type)
			}
		}
	}
}

func TestBuildCTAQRCode(t *testing.T) {
	p := compile(t)
	tl := Build(p, media.NewAttachments(), BuildOptions{Width: 1920, Height: 1080, FPS: 30})

	cta := tl.Sections[len(tl.Sections)-1]
	qr := false
	for _, el := range cta.Elements {
		if el.Kind == ElementLogo && el.Image != nil {
			qr = true
		}
	}
	if !qr {
		t.Error("cta body carries a URL but no QR element was built")
	}
}

func TestBuildBackgroundFollowsAttachments(t *testing.T) {
	p := compile(t)
	att := media.NewAttachments()
	att.Attach(script.SectionSolution, &media.Asset{
		Still: image.NewRGBA(image.Rect(0, 0, 8, 8)),
	})

	tl := Build(p, att, BuildOptions{Width: 1920, Height: 1080, FPS: 30})
	for _, sec := range tl.Sections {
		want := BackgroundGradient
		if sec.Type == script.SectionSolution {
			want = BackgroundImage
		}
		if sec.Background.Kind != want {
			t.Errorf("%s: background kind = %v, want %v", sec.Type, sec.Background.Kind, want)
		}
	}
}

func TestWrapBodyBullets(t *testing.T) {
	lines, bullets := wrapBody("- first point\n- second point\nplain tail", 40)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !bullets[0] || !bullets[1] || bullets[2] {
		t.Errorf("bullet flags = %v", bullets)
	}
}

func TestWrapBodyTruncates(t *testing.T) {
	body := strings.Repeat("many words keep coming here without any break ", 6)
	lines, _ := wrapBody(body, 20)
	if len(lines) != maxBodyLines {
		t.Fatalf("got %d lines, want %d", len(lines), maxBodyLines)
	}
	if !strings.HasSuffix(lines[maxBodyLines-1], "…") {
		t.Error("truncated body must end with an ellipsis")
	}
}

func hasKind(els []Element, k ElementKind) bool {
	for _, el := range els {
		if el.Kind == k {
			return true
		}
	}
	return false
}

func hasShape(els []Element, s ShapeKind) bool {
	return countShape(els, s) > 0
}

func countShape(els []Element, s ShapeKind) int {
	n := 0
	for _, el := range els {
		if el.Kind == ElementShape && el.Shape == s {
			n++
		}
	}
	return n
}

// findLabel returns the uppercase type label element, if present.
func findLabel(els []Element) *Element {
	for i, el := range els {
		if el.Kind == ElementText && el.Y == 0.17 {
			return &els[i]
		}
	}
	return nil
}
