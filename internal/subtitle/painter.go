package subtitle

import (
	"strings"

	"github.com/fogleman/gg"

	"github.com/devomil/pinehill-video/internal/fonts"
)

// Style selects one of the five caption presentations.
type Style string

const (
	StyleTikTok      Style = "tiktok"
	StyleKaraoke     Style = "karaoke"
	StyleModern      Style = "modern"
	StyleMinimal     Style = "minimal"
	StyleTraditional Style = "traditional"
)

// ParseStyle maps a user-supplied name to a style, defaulting to tiktok.
func ParseStyle(name string) Style {
	switch Style(strings.ToLower(name)) {
	case StyleKaraoke:
		return StyleKaraoke
	case StyleModern:
		return StyleModern
	case StyleMinimal:
		return StyleMinimal
	case StyleTraditional:
		return StyleTraditional
	default:
		return StyleTikTok
	}
}

const (
	// Sliding word window of the tiktok style.
	tiktokWordsPerSegment = 3

	// The two styles that wrap by a fixed character budget instead of
	// measured glyph widths.
	karaokeMaxCharsPerLine     = 38
	traditionalMaxCharsPerLine = 42
)

// Render paints the caption for time t onto the drawing surface. Absence of
// a matching segment, of word data, or of text is treated as "draw nothing";
// captions are decoration, never a render-blocking error.
func Render(dc *gg.Context, t float64, segments []Segment, style Style, width, height int) {
	seg := ActiveSegment(segments, t)
	if seg == nil || seg.Text == "" {
		return
	}

	switch style {
	case StyleKaraoke:
		renderKaraoke(dc, t, seg, width, height)
	case StyleModern:
		renderModern(dc, seg, width, height)
	case StyleMinimal:
		renderMinimal(dc, seg, width, height)
	case StyleTraditional:
		renderTraditional(dc, seg, width, height)
	default:
		renderTikTok(dc, t, seg, width, height)
	}
}

//---------------------------------------------------------
// tiktok: скользящее окно из 1-3 слов, активное слово "выстреливает"
//---------------------------------------------------------

func renderTikTok(dc *gg.Context, t float64, seg *Segment, width, height int) {
	if len(seg.Words) == 0 {
		return
	}
	active := activeWordIndex(seg, t)
	start := (active / tiktokWordsPerSegment) * tiktokWordsPerSegment
	end := start + tiktokWordsPerSegment
	if end > len(seg.Words) {
		end = len(seg.Words)
	}
	window := seg.Words[start:end]

	baseSize := float64(height) * 0.042
	space := baseSize * 0.35
	y := float64(height) * 0.74

	// Ширина окна с учётом увеличения активного слова.
	total := 0.0
	for i, w := range window {
		size := baseSize
		if start+i == active {
			size = baseSize * popScale(t, &seg.Words[active])
		}
		dc.SetFontFace(fonts.Bold(size))
		tw, _ := dc.MeasureString(strings.ToUpper(w.Text))
		total += tw
		if i < len(window)-1 {
			total += space
		}
	}

	x := (float64(width) - total) / 2
	for i, w := range window {
		size := baseSize
		fill := "#FFFFFF"
		if start+i == active {
			size = baseSize * popScale(t, &seg.Words[active])
			fill = "#FFE45E"
		}
		dc.SetFontFace(fonts.Bold(size))
		text := strings.ToUpper(w.Text)
		tw, _ := dc.MeasureString(text)
		drawOutlined(dc, text, x, y, fill, size/14)
		x += tw + space
	}
}

// popScale grows the speaking word with an overshoot at its onset.
func popScale(t float64, w *Word) float64 {
	dur := w.EndTime - w.StartTime
	if dur <= 0 {
		return 1.18
	}
	p := (t - w.StartTime) / dur * 3
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return 1.0 + 0.18*easeOutBack(p)
}

//---------------------------------------------------------
// karaoke: вся фраза, спетые слова остаются подсвеченными
//---------------------------------------------------------

func renderKaraoke(dc *gg.Context, t float64, seg *Segment, width, height int) {
	if len(seg.Words) == 0 {
		return
	}
	active := activeWordIndex(seg, t)

	size := float64(height) * 0.032
	dc.SetFontFace(fonts.Bold(size))
	lines := wrapWords(seg.Words, karaokeMaxCharsPerLine)

	lineHeight := size * 1.4
	y := float64(height)*0.82 - lineHeight*float64(len(lines)-1)

	globalIdx := 0
	for _, line := range lines {
		// Ширина строки для центрирования.
		total := 0.0
		space, _ := dc.MeasureString(" ")
		for i, w := range line {
			tw, _ := dc.MeasureString(w.Text)
			total += tw
			if i < len(line)-1 {
				total += space
			}
		}

		x := (float64(width) - total) / 2
		for _, w := range line {
			fill := "#FFFFFF"
			if globalIdx <= active {
				fill = "#4ADE80"
			}
			tw, _ := dc.MeasureString(w.Text)
			drawOutlined(dc, w.Text, x, y, fill, size/16)
			x += tw + space
			globalIdx++
		}
		y += lineHeight
	}
}

//---------------------------------------------------------
// modern: крупный жирный текст на сплошной плашке
//---------------------------------------------------------

func renderModern(dc *gg.Context, seg *Segment, width, height int) {
	size := float64(height) * 0.034
	dc.SetFontFace(fonts.Bold(size))
	lines := wrapMeasured(dc, seg.Text, float64(width)*0.8)
	if len(lines) == 0 {
		return
	}

	lineHeight := size * 1.45
	pad := size * 0.7
	maxW := 0.0
	for _, line := range lines {
		tw, _ := dc.MeasureString(line)
		if tw > maxW {
			maxW = tw
		}
	}

	boxH := lineHeight*float64(len(lines)) + pad
	boxY := float64(height)*0.84 - boxH
	dc.SetRGBA(0.07, 0.09, 0.15, 0.85)
	dc.DrawRoundedRectangle((float64(width)-maxW)/2-pad, boxY, maxW+2*pad, boxH, size*0.4)
	dc.Fill()

	y := boxY + pad/2 + size
	dc.SetHexColor("#FFFFFF")
	for _, line := range lines {
		dc.DrawStringAnchored(line, float64(width)/2, y, 0.5, 0)
		y += lineHeight
	}
}

//---------------------------------------------------------
// minimal: только текст с тенью, без плашки
//---------------------------------------------------------

func renderMinimal(dc *gg.Context, seg *Segment, width, height int) {
	size := float64(height) * 0.03
	dc.SetFontFace(fonts.Regular(size))
	lines := wrapMeasured(dc, seg.Text, float64(width)*0.75)

	lineHeight := size * 1.4
	y := float64(height)*0.85 - lineHeight*float64(len(lines)-1)
	shadow := size / 14
	for _, line := range lines {
		dc.SetRGBA(0, 0, 0, 0.6)
		dc.DrawStringAnchored(line, float64(width)/2+shadow, y+shadow, 0.5, 0)
		dc.SetHexColor("#FFFFFF")
		dc.DrawStringAnchored(line, float64(width)/2, y, 0.5, 0)
		y += lineHeight
	}
}

//---------------------------------------------------------
// traditional: нижняя треть, чёрная плашка под каждой строкой
//---------------------------------------------------------

func renderTraditional(dc *gg.Context, seg *Segment, width, height int) {
	size := float64(height) * 0.028
	dc.SetFontFace(fonts.Regular(size))
	lines := wrapChars(seg.Text, traditionalMaxCharsPerLine)

	lineHeight := size * 1.5
	y := float64(height) - float64(height)*0.06 - lineHeight*float64(len(lines)-1)
	for _, line := range lines {
		tw, th := dc.MeasureString(line)
		dc.SetRGBA(0, 0, 0, 0.75)
		dc.DrawRectangle((float64(width)-tw)/2-size*0.4, y-th-size*0.2, tw+size*0.8, th+size*0.6)
		dc.Fill()
		dc.SetHexColor("#FFFFFF")
		dc.DrawStringAnchored(line, float64(width)/2, y, 0.5, 0)
		y += lineHeight
	}
}

//---------------------------------------------------------
// Вспомогательные функции
//---------------------------------------------------------

// drawOutlined paints text with a dark outline for legibility on any
// background.
func drawOutlined(dc *gg.Context, text string, x, y float64, fill string, thickness float64) {
	if thickness < 1 {
		thickness = 1
	}
	dc.SetRGBA(0, 0, 0, 0.9)
	for dx := -1.0; dx <= 1; dx++ {
		for dy := -1.0; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dc.DrawString(text, x+dx*thickness, y+dy*thickness)
		}
	}
	dc.SetHexColor(fill)
	dc.DrawString(text, x, y)
}

// wrapMeasured is a greedy measure-and-break loop against the actual font
// metrics of the context's current face.
func wrapMeasured(dc *gg.Context, text string, maxWidth float64) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w, _ := dc.MeasureString(candidate); w > maxWidth && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// wrapChars breaks text greedily by a fixed character budget.
func wrapChars(text string, maxChars int) []string {
	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if len(candidate) > maxChars && current != "" {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// wrapWords groups word windows into lines by the same character budget,
// preserving word identity for per-word coloring.
func wrapWords(words []Word, maxChars int) [][]Word {
	var lines [][]Word
	var current []Word
	length := 0
	for _, w := range words {
		add := len(w.Text)
		if len(current) > 0 {
			add++
		}
		if length+add > maxChars && len(current) > 0 {
			lines = append(lines, current)
			current = nil
			length = 0
			add = len(w.Text)
		}
		current = append(current, w)
		length += add
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}

// easeOutBack overshoots slightly before settling, used for the word pop.
func easeOutBack(t float64) float64 {
	const c1 = 1.70158
	const c3 = c1 + 1
	u := t - 1
	return 1 + c3*u*u*u + c1*u*u
}
