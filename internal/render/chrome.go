package render

import (
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"github.com/devomil/pinehill-video/internal/timeline"
)

// paintChrome draws the fixed decorative layer: a hue-rotating rounded
// border, pulsing corner brackets and a few floating accent shapes.
func paintChrome(dc *gg.Context, theme timeline.Theme, t float64, width, height int) {
	w, h := float64(width), float64(height)

	// Рамка с медленно вращающимся оттенком.
	hue := math.Mod(t*40, 360)
	r, g, b := hslToRGB(hue/360, 0.7, 0.6)
	margin := h * 0.02
	dc.SetRGBA(r, g, b, 0.45)
	dc.SetLineWidth(h * 0.004)
	dc.DrawRoundedRectangle(margin, margin, w-2*margin, h-2*margin, h*0.02)
	dc.Stroke()

	// Пульсирующие уголки.
	pulse := 0.4 + 0.3*math.Sin(t*4)
	if pulse < 0 {
		pulse = 0
	}
	ar, ag, ab := hexToRGB(theme.Accent)
	dc.SetRGBA(ar, ag, ab, pulse)
	dc.SetLineWidth(h * 0.005)
	inset := margin * 2.2
	arm := h * 0.03
	corners := [][4]float64{
		{inset, inset, 1, 1},
		{w - inset, inset, -1, 1},
		{inset, h - inset, 1, -1},
		{w - inset, h - inset, -1, -1},
	}
	for _, c := range corners {
		dc.DrawLine(c[0], c[1], c[0]+arm*c[2], c[1])
		dc.DrawLine(c[0], c[1], c[0], c[1]+arm*c[3])
	}
	dc.Stroke()

	// Плавающие акцентные фигуры.
	for i := 0; i < 3; i++ {
		seed := float64(i) * 2.1
		x := w * (0.15 + 0.35*float64(i)) * (1 + 0.02*math.Sin(t*0.7+seed))
		y := h*(0.25+0.18*float64(i)) + h*0.015*math.Cos(t*0.9+seed)
		dc.SetRGBA(ar, ag, ab, 0.12)
		dc.SetLineWidth(h * 0.002)
		dc.DrawCircle(x, y, h*(0.015+0.01*float64(i)))
		dc.Stroke()
	}
}

//---------------------------------------------------------
// Цветовые помощники
//---------------------------------------------------------

// hexToRGB parses "#RRGGBB" into [0,1] components.
func hexToRGB(hex string) (r, g, b float64) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 1, 1, 1
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 1, 1, 1
	}
	return float64(v>>16&0xFF) / 255, float64(v>>8&0xFF) / 255, float64(v&0xFF) / 255
}

func hexColor(hex string) color.Color {
	r, g, b := hexToRGB(hex)
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// hslToRGB converts h,s,l in [0,1] to RGB components in [0,1].
func hslToRGB(h, s, l float64) (float64, float64, float64) {
	if s == 0 {
		return l, l, l
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return hueToRGB(p, q, h+1.0/3), hueToRGB(p, q, h), hueToRGB(p, q, h-1.0/3)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}
