// Package render drives the per-frame state machine: it paints background,
// decorative chrome, animated elements, color grade and captions for every
// frame of a timeline and feeds the result to an encoder sink.
package render

import (
	"context"
	"fmt"
	"time"

	"github.com/fogleman/gg"

	"github.com/devomil/pinehill-video/internal/config"
	"github.com/devomil/pinehill-video/internal/media"
	"github.com/devomil/pinehill-video/internal/script"
	"github.com/devomil/pinehill-video/internal/subtitle"
	"github.com/devomil/pinehill-video/internal/timeline"
	"github.com/devomil/pinehill-video/internal/video"
)

// Progress reports coarse render progress in percent.
type Progress func(percent int)

// finishGrace is the trailing delay before the encoder is finalized, so the
// last frames are not truncated.
const finishGrace = 300 * time.Millisecond

// Compositor owns one render's mutable state: the attachment map and the
// frame clock. Two concurrent renders need two compositors; the attachment
// lifecycle (Attach/Reset) guarantees scripts cannot cross-contaminate.
type Compositor struct {
	cfg         config.Config
	attachments *media.Attachments
	clock       Clock
}

func NewCompositor(cfg config.Config) *Compositor {
	c := &Compositor{
		cfg:         cfg,
		attachments: media.NewAttachments(),
	}
	if cfg.Realtime {
		c.clock = NewTickerClock(cfg.FPS)
	} else {
		c.clock = InstantClock{}
	}
	return c
}

// SetClock substitutes the pacing clock; tests use an instant or manual one.
func (c *Compositor) SetClock(clock Clock) {
	c.clock = clock
}

// Attachments exposes the per-instance media map for preloading.
func (c *Compositor) Attachments() *media.Attachments {
	return c.attachments
}

// Reset clears attached media so the compositor can render another script.
func (c *Compositor) Reset() {
	c.attachments.Reset()
}

// BuildTimeline compiles the parsed script plus attached media into the
// render plan, rescaled to the configured target duration.
func (c *Compositor) BuildTimeline(p *script.ParsedScript) *timeline.Timeline {
	return timeline.Build(p, c.attachments, timeline.BuildOptions{
		TargetDuration: c.cfg.TargetDuration,
		Width:          c.cfg.Width,
		Height:         c.cfg.Height,
		FPS:            c.cfg.FPS,
	})
}

// RenderVideo runs the frame loop over the timeline and returns the encoded
// blob. The loop is single-threaded and cooperatively paced: one suspension
// point per frame through the clock, one cancellation check per frame.
func (c *Compositor) RenderVideo(ctx context.Context, tl *timeline.Timeline, segments []subtitle.Segment, sink video.FrameSink, progress Progress) ([]byte, error) {
	// Прерванный рендер обязан прибрать за энкодером: закрыть поток кадров
	// и дождаться завершения процесса, иначе ffmpeg останется висеть.
	finished := false
	defer func() {
		if !finished {
			sink.Abort()
		}
	}()

	if tl.TotalDuration <= 0 || len(tl.Sections) == 0 {
		return nil, fmt.Errorf("пустой таймлайн: нечего рендерить")
	}

	totalFrames := int(tl.TotalDuration * float64(tl.FPS))
	dc := gg.NewContext(tl.Width, tl.Height)
	grade := ParseGrade(c.cfg.Enhancements.ColorGrade)
	style := subtitle.ParseStyle(c.cfg.Enhancements.CaptionStyle)

	for frame := 0; frame < totalFrames; frame++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t := float64(frame) / float64(tl.FPS)
		c.renderFrame(dc, tl, segments, grade, style, t)

		if err := sink.Push(dc.Image()); err != nil {
			return nil, err
		}
		if progress != nil && frame%10 == 0 {
			progress(frame * 100 / totalFrames)
		}
		if err := c.clock.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if progress != nil {
		progress(100)
	}

	// Пауза перед финализацией, чтобы энкодер дописал хвост потока.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(finishGrace):
	}
	finished = true
	return sink.Finish(ctx)
}

// renderFrame paints one frame in the fixed order: background, chrome,
// elements, color grade, captions, then the section cross-fade.
func (c *Compositor) renderFrame(dc *gg.Context, tl *timeline.Timeline, segments []subtitle.Segment, grade Grade, style subtitle.Style, t float64) {
	w, h := tl.Width, tl.Height

	sec := tl.SectionAt(t)
	if sec == nil {
		// Разрывы между секциями заливаются чёрным.
		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
		return
	}

	asset := c.attachments.Get(sec.Type)
	paintBackground(dc, sec, asset, t, c.cfg.Enhancements.PreferVideoClips, w, h)
	paintChrome(dc, sec.Background.Theme, t, w, h)

	local := t - sec.StartTime
	for i := range sec.Elements {
		el := &sec.Elements[i]
		if local >= el.StartTime && local < el.EndTime {
			paintElement(dc, el, local, w, h)
		}
	}

	ApplyGrade(dc, grade, w, h)

	if c.cfg.Enhancements.Captions {
		subtitle.Render(dc, t, segments, style, w, h)
	}

	// Кроссфейд секций: единый множитель прозрачности кадра.
	if alpha := TransitionAlpha(sec, t); alpha < 1 {
		dc.SetRGBA(0, 0, 0, 1-alpha)
		dc.DrawRectangle(0, 0, float64(w), float64(h))
		dc.Fill()
	}
}
