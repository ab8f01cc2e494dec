package render

import (
	"image"
	"math"

	"github.com/fogleman/gg"

	"github.com/devomil/pinehill-video/internal/media"
	"github.com/devomil/pinehill-video/internal/timeline"
)

// Ken Burns is a fixed, parameter-free effect: eased scale 1.0 -> 1.15
// across the section, pan bounded to +-30/+-20 px.
const (
	kenBurnsScaleRange = 0.15
	kenBurnsPanX       = 30.0
	kenBurnsPanY       = 20.0
)

// KenBurnsScale returns the zoom factor for normalized section progress.
func KenBurnsScale(p float64) float64 {
	return 1.0 + kenBurnsScaleRange*EaseInOutCubic(p)
}

// KenBurnsPan returns the pan offsets in pixels for normalized progress.
func KenBurnsPan(p float64) (dx, dy float64) {
	p = clamp01(p)
	return kenBurnsPanX * math.Sin(p*math.Pi), kenBurnsPanY * math.Cos(p*math.Pi)
}

// ResolveBackgroundKind decides the paint path for a frame. The asset is
// re-checked every frame, not once at load: a missing or still-loading
// image silently demotes the section to its themed gradient.
func ResolveBackgroundKind(sec *timeline.Section, asset *media.Asset, preferClips bool) timeline.BackgroundKind {
	if sec.Background.Kind != timeline.BackgroundImage {
		return sec.Background.Kind
	}
	// Вложение могло исчезнуть после сборки таймлайна (Reset между
	// рендерами): секция тихо откатывается к градиенту.
	if asset == nil {
		return timeline.BackgroundGradient
	}
	if asset.Clip.FrameCount() > 0 && (preferClips || asset.Still == nil) {
		return timeline.BackgroundImage
	}
	if asset.Still != nil {
		return timeline.BackgroundImage
	}
	return timeline.BackgroundGradient
}

// paintBackground paints the section backdrop and returns the kind actually
// used, which tests assert on.
func paintBackground(dc *gg.Context, sec *timeline.Section, asset *media.Asset, t float64, preferClips bool, width, height int) timeline.BackgroundKind {
	local := t - sec.StartTime

	if ResolveBackgroundKind(sec, asset, preferClips) == timeline.BackgroundImage {
		// Градиентная подложка под изображением: панорама Кена Бёрнса
		// смещает картинку до ±30/±20 px, и без подложки кромка кадра
		// показывала бы пиксели предыдущего кадра.
		paintGradient(dc, sec.Background, width, height)

		// Приоритет: зацикленный клип, затем статичное изображение с
		// эффектом Кена Бёрнса.
		if asset.Clip.FrameCount() > 0 && (preferClips || asset.Still == nil) {
			if frame := asset.Clip.FrameAt(local); frame != nil {
				drawCover(dc, frame, 1.0, 0, 0, width, height)
				return timeline.BackgroundImage
			}
		}
		if asset.Still != nil {
			p := 0.0
			if d := sec.Duration(); d > 0 {
				p = clamp01(local / d)
			}
			dx, dy := KenBurnsPan(p)
			drawCover(dc, asset.Still, KenBurnsScale(p), dx, dy, width, height)
			return timeline.BackgroundImage
		}
	}

	paintGradient(dc, sec.Background, width, height)
	paintParticles(dc, sec.Background.Theme, t, width, height)
	return timeline.BackgroundGradient
}

// drawCover scales an image to cover the frame (centered crop) with an
// extra zoom factor and pan offsets on top.
func drawCover(dc *gg.Context, img image.Image, zoom, dx, dy float64, width, height int) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	cover := maxf(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	s := cover * zoom

	dc.Push()
	dc.Translate(float64(width)/2+dx, float64(height)/2+dy)
	dc.Scale(s, s)
	dc.DrawImageAnchored(img, 0, 0, 0.5, 0.5)
	dc.Pop()
}

func paintGradient(dc *gg.Context, bg timeline.Background, width, height int) {
	w, h := float64(width), float64(height)

	if bg.Kind == timeline.BackgroundSolid {
		dc.SetHexColor(bg.Theme.Top)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
		return
	}

	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, hexColor(bg.Theme.Top))
	grad.AddColorStop(1, hexColor(bg.Theme.Bottom))
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

const particleCount = 14

// paintParticles draws the ambient floating motion over gradient
// backgrounds. Positions are a deterministic hash of the particle index so
// every render of the same timeline is identical.
func paintParticles(dc *gg.Context, theme timeline.Theme, t float64, width, height int) {
	w, h := float64(width), float64(height)
	r, g, b := hexToRGB(theme.Accent)

	for i := 0; i < particleCount; i++ {
		seed := float64(i)
		px := frac(math.Sin(seed*12.9898+78.233) * 43758.5453)
		py := frac(math.Sin(seed*39.3467+11.135) * 24634.6345)
		size := (2 + 4*frac(seed*0.731)) * h / 1080

		// Медленный дрейф вверх с лёгким горизонтальным покачиванием.
		x := px*w + math.Sin(t*0.6+seed)*w*0.01
		y := frac(py-t*0.02*(0.5+px)) * h

		alpha := 0.10 + 0.08*math.Sin(t*2+seed)
		if alpha < 0 {
			alpha = 0
		}
		dc.SetRGBA(r, g, b, alpha)
		dc.DrawCircle(x, y, size)
		dc.Fill()
	}
}

func frac(v float64) float64 {
	f := v - math.Floor(v)
	if f < 0 {
		f += 1
	}
	return f
}
