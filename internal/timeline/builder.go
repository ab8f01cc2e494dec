package timeline

import (
	"log"
	"regexp"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/devomil/pinehill-video/internal/media"
	"github.com/devomil/pinehill-video/internal/script"
)

// BuildOptions configures one timeline build.
type BuildOptions struct {
	TargetDuration float64 // 0 keeps the compiled script estimate
	Width          int
	Height         int
	FPS            int
	Wordmark       string // brand wordmark text; defaults to the Pine Hill mark
}

const (
	defaultWordmark       = "PINE HILL MARKET"
	maxBodyLines          = 4
	sectionFadeDuration   = 0.5
	bodyLineStagger       = 0.15
	portraitCharsPerLine  = 24
	landscapeCharsPerLine = 38
)

// Build compiles script sections plus attached media into a render plan.
// Section times are rescaled so the render matches the requested length
// regardless of what the compiler estimated; proportions are preserved.
func Build(p *script.ParsedScript, att *media.Attachments, opts BuildOptions) *Timeline {
	tl := &Timeline{
		FPS:    opts.FPS,
		Width:  opts.Width,
		Height: opts.Height,
	}
	if tl.FPS <= 0 {
		tl.FPS = 30
	}

	scale := 1.0
	if opts.TargetDuration > 0 && p.TotalDuration > 0 {
		scale = opts.TargetDuration / p.TotalDuration
	}

	wordmark := opts.Wordmark
	if wordmark == "" {
		wordmark = defaultWordmark
	}

	portrait := opts.Height > opts.Width

	for _, sec := range p.Sections {
		vs := Section{
			ID:        sec.ID,
			Type:      sec.Type,
			StartTime: sec.StartTime * scale,
			EndTime:   sec.EndTime * scale,
			In:        Transition{Kind: TransitionFade, Duration: sectionFadeDuration},
			Out:       Transition{Kind: TransitionFade, Duration: sectionFadeDuration},
			Background: Background{
				Kind:  BackgroundGradient,
				Theme: ThemeFor(sec.Type),
			},
		}
		if att.HasMedia(sec.Type) {
			vs.Background.Kind = BackgroundImage
		}
		vs.Elements = buildElements(sec, vs.Duration(), wordmark, portrait)
		tl.Sections = append(tl.Sections, vs)
	}

	if n := len(tl.Sections); n > 0 {
		tl.TotalDuration = tl.Sections[n-1].EndTime
	}
	return tl
}

// buildElements synthesizes the fixed per-type template for one section.
func buildElements(sec script.Section, dur float64, wordmark string, portrait bool) []Element {
	theme := ThemeFor(sec.Type)
	var els []Element

	// Фирменный знак присутствует в каждой секции.
	els = append(els, Element{
		Kind:      ElementLogo,
		Text:      wordmark,
		X:         0.5,
		Y:         0.06,
		AnchorX:   0.5,
		FontScale: 0.018,
		Bold:      true,
		Color:     "#F8FAFC",
		StartTime: 0,
		EndTime:   dur,
		Entry:     Animation{Kind: AnimFade, Duration: 0.4},
		Exit:      Animation{Kind: AnimFade, Duration: 0.3},
	})

	// Подпись типа секции — у всех, кроме хука.
	if sec.Type != script.SectionHook {
		els = append(els, Element{
			Kind:      ElementText,
			Text:      strings.ToUpper(sec.Title),
			X:         0.5,
			Y:         0.17,
			AnchorX:   0.5,
			FontScale: 0.026,
			Bold:      true,
			Color:     theme.Accent,
			StartTime: 0.2,
			EndTime:   dur,
			Entry:     Animation{Kind: AnimSlideDown, Duration: 0.5},
			Exit:      Animation{Kind: AnimFade, Duration: 0.4},
		})
	}

	els = append(els, bodyElements(sec, dur, theme, portrait)...)

	if sec.Type == script.SectionCTA {
		els = append(els, ctaElements(sec, dur, theme)...)
	}
	return els
}

// bodyElements wraps the section body into staggered lines.
func bodyElements(sec script.Section, dur float64, theme Theme, portrait bool) []Element {
	chars := landscapeCharsPerLine
	if portrait {
		chars = portraitCharsPerLine
	}

	lines, bullets := wrapBody(sec.Body, chars)
	if len(lines) == 0 {
		return nil
	}

	baseY := 0.40
	lineStep := 0.07
	var els []Element
	for i, line := range lines {
		fontScale := 0.034
		bold := false
		anchorX := 0.5
		x := 0.5
		color := "#FFFFFF"

		if sec.Type == script.SectionHook && i == 0 {
			fontScale = 0.045
			bold = true
		}
		if sec.Type == script.SectionSolution && bullets[i] {
			// Отмеченные строки выравниваем влево под галочку.
			anchorX = 0
			x = 0.20
		}

		start := 0.3 + float64(i)*bodyLineStagger
		if start > dur {
			start = dur
		}
		els = append(els, Element{
			Kind:      ElementText,
			Text:      line,
			X:         x,
			Y:         baseY + float64(i)*lineStep,
			AnchorX:   anchorX,
			FontScale: fontScale,
			Bold:      bold,
			Color:     color,
			StartTime: start,
			EndTime:   dur,
			Entry:     Animation{Kind: AnimSlideUp, Duration: 0.6},
			Exit:      Animation{Kind: AnimFade, Duration: 0.4},
		})

		if sec.Type == script.SectionSolution && bullets[i] {
			els = append(els, Element{
				Kind:      ElementShape,
				Shape:     ShapeCheckmark,
				X:         0.15,
				Y:         baseY + float64(i)*lineStep,
				Width:     0.025,
				Color:     theme.Accent,
				StartTime: start,
				EndTime:   dur,
				Entry:     Animation{Kind: AnimScale, Duration: 0.4},
				Exit:      Animation{Kind: AnimFade, Duration: 0.4},
			})
		}
	}

	// Декоративное подчёркивание под первой строкой хука.
	if sec.Type == script.SectionHook {
		els = append(els, Element{
			Kind:      ElementShape,
			Shape:     ShapeUnderline,
			X:         0.5,
			Y:         baseY + 0.045,
			AnchorX:   0.5,
			Width:     0.28,
			Color:     theme.Accent,
			StartTime: 0.6,
			EndTime:   dur,
			Entry:     Animation{Kind: AnimScale, Duration: 0.5},
			Exit:      Animation{Kind: AnimFade, Duration: 0.3},
		})
	}
	return els
}

var urlPattern = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)

// ctaElements adds the pulsing CTA button and, when the body carries a URL,
// a QR code the viewer can scan.
func ctaElements(sec script.Section, dur float64, theme Theme) []Element {
	label := firstSentence(sec.Body)
	if len(label) > 28 || label == "" {
		label = "Shop Now"
	}

	els := []Element{{
		Kind:      ElementShape,
		Shape:     ShapeCTAButton,
		Text:      label,
		X:         0.5,
		Y:         0.64,
		AnchorX:   0.5,
		Width:     0.5,
		FontScale: 0.032,
		Bold:      true,
		Color:     theme.Accent,
		StartTime: 0.4,
		EndTime:   dur,
		Entry:     Animation{Kind: AnimScale, Duration: 0.6},
		Exit:      Animation{Kind: AnimFade, Duration: 0.4},
	}}

	if url := urlPattern.FindString(sec.Body); url != "" {
		qr, err := qrcode.New(url, qrcode.Medium)
		if err != nil {
			log.Printf("[!] Не удалось построить QR-код для %q: %v", url, err)
			return els
		}
		els = append(els, Element{
			Kind:      ElementLogo,
			Image:     qr.Image(256),
			X:         0.5,
			Y:         0.82,
			AnchorX:   0.5,
			Width:     0.13,
			StartTime: 0.8,
			EndTime:   dur,
			Entry:     Animation{Kind: AnimFade, Duration: 0.5},
			Exit:      Animation{Kind: AnimFade, Duration: 0.3},
		})
	}
	return els
}

var bulletPrefix = regexp.MustCompile(`^[-–•✓✔]\s*`)

// wrapBody breaks the body into at most maxBodyLines display lines and
// reports which lines originated from bulleted input.
func wrapBody(body string, maxChars int) ([]string, []bool) {
	var lines []string
	var bullets []bool

	for _, raw := range strings.Split(body, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		isBullet := bulletPrefix.MatchString(raw)
		raw = bulletPrefix.ReplaceAllString(raw, "")

		current := ""
		for _, word := range strings.Fields(raw) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if len(candidate) > maxChars && current != "" {
				lines = append(lines, current)
				bullets = append(bullets, isBullet)
				isBullet = false // continuation lines are not re-checked
				current = word
				continue
			}
			current = candidate
		}
		if current != "" {
			lines = append(lines, current)
			bullets = append(bullets, isBullet)
		}
	}

	if len(lines) > maxBodyLines {
		lines = lines[:maxBodyLines]
		bullets = bullets[:maxBodyLines]
		lines[maxBodyLines-1] += "…"
	}
	return lines, bullets
}

func firstSentence(s string) string {
	for _, r := range []string{".", "!", "?"} {
		if i := strings.Index(s, r); i > 0 {
			return strings.TrimSpace(s[:i])
		}
	}
	return strings.TrimSpace(s)
}
