package render

import (
	"math"

	"github.com/fogleman/gg"

	"github.com/devomil/pinehill-video/internal/fonts"
	"github.com/devomil/pinehill-video/internal/timeline"
)

// animState is the blended contribution of one animation curve: opacity and
// scale compose multiplicatively between entry and exit, offsets add.
type animState struct {
	opacity float64
	dx, dy  float64
	scale   float64
}

// slideDistance is the travel of slide entries/exits as a fraction of the
// frame height.
const slideDistance = 0.04

// entryState computes the element's entry animation at progress p in [0,1].
func entryState(anim timeline.Animation, p float64, height float64) animState {
	st := animState{opacity: 1, scale: 1}
	if anim.Kind == timeline.AnimNone || anim.Duration <= 0 {
		return st
	}
	p = clamp01(p)
	e := EaseOutCubic(p)
	dist := slideDistance * height

	switch anim.Kind {
	case timeline.AnimFade:
		st.opacity = e
	case timeline.AnimSlideLeft:
		st.opacity = e
		st.dx = (1 - e) * dist
	case timeline.AnimSlideRight:
		st.opacity = e
		st.dx = -(1 - e) * dist
	case timeline.AnimSlideUp:
		st.opacity = e
		st.dy = (1 - e) * dist
	case timeline.AnimSlideDown:
		st.opacity = e
		st.dy = -(1 - e) * dist
	case timeline.AnimScale:
		st.opacity = clamp01(p * 2)
		st.scale = EaseOutBack(p)
	case timeline.AnimNone:
	}
	return st
}

// exitState computes the exit animation; q is "remaining" progress, 1 while
// the element is fully visible and 0 at its end time.
func exitState(anim timeline.Animation, q float64, height float64) animState {
	st := animState{opacity: 1, scale: 1}
	if anim.Kind == timeline.AnimNone || anim.Duration <= 0 {
		return st
	}
	q = clamp01(q)
	e := EaseOutCubic(q)
	dist := slideDistance * height

	switch anim.Kind {
	case timeline.AnimFade:
		st.opacity = e
	case timeline.AnimSlideLeft:
		st.opacity = e
		st.dx = -(1 - e) * dist
	case timeline.AnimSlideRight:
		st.opacity = e
		st.dx = (1 - e) * dist
	case timeline.AnimSlideUp:
		st.opacity = e
		st.dy = -(1 - e) * dist
	case timeline.AnimSlideDown:
		st.opacity = e
		st.dy = (1 - e) * dist
	case timeline.AnimScale:
		st.opacity = e
		st.scale = 0.8 + 0.2*e
	case timeline.AnimNone:
	}
	return st
}

// paintElement draws one element at section-local time local; it must only
// be called when the element's [StartTime,EndTime) window contains local.
func paintElement(dc *gg.Context, el *timeline.Element, local float64, width, height int) {
	w, h := float64(width), float64(height)

	entryP := 1.0
	if el.Entry.Duration > 0 {
		entryP = (local - el.StartTime) / el.Entry.Duration
	}
	exitQ := 1.0
	if el.Exit.Duration > 0 {
		exitQ = (el.EndTime - local) / el.Exit.Duration
	}

	in := entryState(el.Entry, entryP, h)
	out := exitState(el.Exit, exitQ, h)

	opacity := in.opacity * out.opacity
	scale := in.scale * out.scale
	x := el.X*w + in.dx + out.dx
	y := el.Y*h + in.dy + out.dy

	if opacity <= 0.001 {
		return
	}

	r, g, b := hexToRGB(el.Color)

	switch el.Kind {
	case timeline.ElementText:
		paintText(dc, el, x, y, scale, opacity, r, g, b, h)

	case timeline.ElementLogo:
		if el.Image != nil {
			paintImage(dc, el, x, y, scale, opacity, w)
			return
		}
		paintText(dc, el, x, y, scale, opacity, r, g, b, h)

	case timeline.ElementImage:
		paintImage(dc, el, x, y, scale, opacity, w)

	case timeline.ElementShape:
		paintShape(dc, el, x, y, local, scale, opacity, r, g, b, w, h)

	case timeline.ElementSubtitle:
		// Подписи рисуются отдельным проходом из таблицы сегментов.
	}
}

func paintText(dc *gg.Context, el *timeline.Element, x, y, scale, opacity, r, g, b, h float64) {
	if el.Text == "" {
		return
	}
	size := el.FontScale * h * scale
	if size < 1 {
		return
	}
	if el.Bold {
		dc.SetFontFace(fonts.Bold(size))
	} else {
		dc.SetFontFace(fonts.Regular(size))
	}

	// Лёгкая тень для читаемости на любом фоне.
	dc.SetRGBA(0, 0, 0, 0.5*opacity)
	dc.DrawStringAnchored(el.Text, x+size/16, y+size/16, el.AnchorX, 0.5)
	dc.SetRGBA(r, g, b, opacity)
	dc.DrawStringAnchored(el.Text, x, y, el.AnchorX, 0.5)
}

func paintImage(dc *gg.Context, el *timeline.Element, x, y, scale, opacity, w float64) {
	b := el.Image.Bounds()
	if b.Dx() == 0 {
		return
	}
	target := el.Width * w * scale
	s := target / float64(b.Dx())

	// gg не поддерживает прозрачность при отрисовке изображений, поэтому
	// вход по fade для картинок сводится к позднему появлению.
	if opacity < 0.5 {
		return
	}

	dc.Push()
	dc.Translate(x, y)
	dc.Scale(s, s)
	dc.DrawImageAnchored(el.Image, 0, 0, el.AnchorX, 0.5)
	dc.Pop()
}

func paintShape(dc *gg.Context, el *timeline.Element, x, y, local, scale, opacity, r, g, b, w, h float64) {
	switch el.Shape {
	case timeline.ShapeUnderline:
		lw := el.Width * w * scale
		dc.SetRGBA(r, g, b, opacity)
		dc.DrawRoundedRectangle(x-lw/2, y-h*0.003, lw, h*0.006, h*0.003)
		dc.Fill()

	case timeline.ShapeCheckmark:
		size := el.Width * w * scale
		dc.SetRGBA(r, g, b, opacity)
		dc.SetLineWidth(size * 0.22)
		dc.SetLineCap(gg.LineCapRound)
		dc.DrawLine(x-size/2, y, x-size/8, y+size/3)
		dc.DrawLine(x-size/8, y+size/3, x+size/2, y-size/3)
		dc.Stroke()

	case timeline.ShapeCTAButton:
		// Кнопка пульсирует на собственных часах секции.
		pulse := 1 + 0.05*math.Sin(local*5)
		bw := el.Width * w * scale * pulse
		bh := h * 0.085 * scale * pulse

		dc.SetRGBA(r, g, b, opacity)
		dc.DrawRoundedRectangle(x-bw/2, y-bh/2, bw, bh, bh/2)
		dc.Fill()

		if el.Text != "" {
			size := el.FontScale * h * scale
			dc.SetFontFace(fonts.Bold(size))
			dc.SetRGBA(0.05, 0.05, 0.08, opacity)
			dc.DrawStringAnchored(el.Text, x, y, 0.5, 0.5)
		}

	case timeline.ShapeNone:
	}
}
