package render

import (
	"context"
	"errors"
	"image"
	"strings"
	"testing"

	"github.com/devomil/pinehill-video/internal/config"
	"github.com/devomil/pinehill-video/internal/media"
	"github.com/devomil/pinehill-video/internal/script"
	"github.com/devomil/pinehill-video/internal/timeline"
	"github.com/devomil/pinehill-video/internal/video"
)

const compositorScript = `[HOOK]
Ever wondered where your honey really comes from?

[PROBLEM]
Most jars on the shelf are imported blends.

[SOLUTION]
We bottle raw honey from our own hives every week.

[SOCIAL_PROOF]
Thousands of local families already made the switch.

[CTA]
Visit us today and taste the difference.
`

func testCompositor(t *testing.T) (*Compositor, *timeline.Timeline) {
	t.Helper()
	cfg := config.Config{
		Platform:       config.PlatformInstagramFeed,
		TargetDuration: 2,
		Width:          96,
		Height:         96,
		FPS:            10,
		Enhancements:   config.DefaultEnhancements(),
	}
	c := NewCompositor(cfg)

	p := script.ParseScript(compositorScript, 0, cfg.Platform)
	if len(p.Sections) != 5 {
		t.Fatalf("expected 5 sections, got %d", len(p.Sections))
	}
	return c, c.BuildTimeline(p)
}

func TestRenderVideoFrameCount(t *testing.T) {
	c, tl := testCompositor(t)

	sink := &video.MemorySink{}
	last := -1
	_, err := c.RenderVideo(context.Background(), tl, nil, sink, func(p int) {
		if p < last {
			t.Errorf("progress went backwards: %d after %d", p, last)
		}
		last = p
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	want := int(tl.TotalDuration * float64(tl.FPS))
	if len(sink.Frames) != want {
		t.Errorf("rendered %d frames, want %d", len(sink.Frames), want)
	}
	if last != 100 {
		t.Errorf("final progress = %d, want 100", last)
	}
}

func TestRenderVideoCancellation(t *testing.T) {
	c, tl := testCompositor(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &video.MemorySink{}
	_, err := c.RenderVideo(ctx, tl, nil, sink, nil)
	if err != context.Canceled {
		t.Errorf("cancelled render returned %v, want context.Canceled", err)
	}
	if !sink.Aborted {
		t.Error("interrupted render must abort the sink so the encoder is reaped")
	}
}

// failingSink rejects every frame; the render must abort cleanly.
type failingSink struct {
	video.MemorySink
	pushErr error
}

func (f *failingSink) Push(img image.Image) error {
	return f.pushErr
}

func TestRenderVideoPushFailureAborts(t *testing.T) {
	c, tl := testCompositor(t)

	sink := &failingSink{pushErr: errors.New("encoder pipe closed")}
	_, err := c.RenderVideo(context.Background(), tl, nil, sink, nil)
	if err == nil || !strings.Contains(err.Error(), "encoder pipe closed") {
		t.Fatalf("push failure must surface, got %v", err)
	}
	if !sink.Aborted {
		t.Error("push failure must abort the sink")
	}
}

func TestRenderVideoFinishKeepsSink(t *testing.T) {
	c, tl := testCompositor(t)

	sink := &video.MemorySink{}
	if _, err := c.RenderVideo(context.Background(), tl, nil, sink, nil); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if sink.Aborted {
		t.Error("a completed render must finish the sink, not abort it")
	}
}

func TestRenderVideoSurvivesReset(t *testing.T) {
	c, _ := testCompositor(t)
	c.Attachments().Attach(script.SectionHook, &media.Asset{
		Still: image.NewRGBA(image.Rect(0, 0, 4, 4)),
	})

	p := script.ParseScript(compositorScript, 0, config.PlatformInstagramFeed)
	tl := c.BuildTimeline(p)

	// Вложение исчезает между сборкой таймлайна и рендером: секция с фоном
	// BackgroundImage обязана тихо откатиться к градиенту, не падая.
	c.Reset()

	sink := &video.MemorySink{}
	if _, err := c.RenderVideo(context.Background(), tl, nil, sink, nil); err != nil {
		t.Fatalf("render after Reset failed: %v", err)
	}
	if want := int(tl.TotalDuration * float64(tl.FPS)); len(sink.Frames) != want {
		t.Errorf("rendered %d frames, want %d", len(sink.Frames), want)
	}
}

func TestRenderVideoEmptyTimeline(t *testing.T) {
	c := NewCompositor(config.Config{FPS: 10, Width: 16, Height: 16})
	_, err := c.RenderVideo(context.Background(), &timeline.Timeline{FPS: 10}, nil, &video.MemorySink{}, nil)
	if err == nil || !strings.Contains(err.Error(), "таймлайн") {
		t.Errorf("empty timeline must be rejected, got %v", err)
	}
}

func TestResolveBackgroundKindDemotes(t *testing.T) {
	sec := &timeline.Section{
		Background: timeline.Background{Kind: timeline.BackgroundImage},
	}

	if k := ResolveBackgroundKind(sec, nil, false); k != timeline.BackgroundGradient {
		t.Errorf("nil asset must demote to gradient, got %v", k)
	}
	empty := &media.Asset{}
	if k := ResolveBackgroundKind(sec, empty, false); k != timeline.BackgroundGradient {
		t.Errorf("empty asset must demote to gradient, got %v", k)
	}

	still := &media.Asset{Still: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	if k := ResolveBackgroundKind(sec, still, false); k != timeline.BackgroundImage {
		t.Errorf("still asset must keep the image background, got %v", k)
	}

	plain := &timeline.Section{Background: timeline.Background{Kind: timeline.BackgroundGradient}}
	if k := ResolveBackgroundKind(plain, still, false); k != timeline.BackgroundGradient {
		t.Errorf("gradient sections ignore attachments, got %v", k)
	}
}

func TestBuildTimelineUsesAttachments(t *testing.T) {
	c, _ := testCompositor(t)
	c.Attachments().Attach(script.SectionSolution, &media.Asset{
		Still: image.NewRGBA(image.Rect(0, 0, 4, 4)),
	})

	p := script.ParseScript(compositorScript, 0, config.PlatformInstagramFeed)
	tl := c.BuildTimeline(p)
	for _, sec := range tl.Sections {
		want := timeline.BackgroundGradient
		if sec.Type == script.SectionSolution {
			want = timeline.BackgroundImage
		}
		if sec.Background.Kind != want {
			t.Errorf("%s: background = %v, want %v", sec.Type, sec.Background.Kind, want)
		}
	}

	c.Reset()
	tl = c.BuildTimeline(p)
	for _, sec := range tl.Sections {
		if sec.Background.Kind != timeline.BackgroundGradient {
			t.Errorf("%s: background survives Reset", sec.Type)
		}
	}
}
