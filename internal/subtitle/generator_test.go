package subtitle

import (
	"math"
	"testing"

	"github.com/devomil/pinehill-video/internal/config"
	"github.com/devomil/pinehill-video/internal/script"
)

func testScript() *script.ParsedScript {
	raw := "[HOOK]\nReady for change? It starts today.\n[PROBLEM]\nOld tools are slow.\n[SOLUTION]\nOurs is easy and fast!\n[SOCIAL_PROOF]\nThousands switched already.\n[CTA]\nJoin us now."
	return script.ParseScript(raw, 60, config.PlatformYouTube)
}

func TestGenerateContiguous(t *testing.T) {
	segments := Generate(testScript(), 0)
	if len(segments) == 0 {
		t.Fatal("expected segments")
	}

	if segments[0].StartTime != 0 {
		t.Errorf("first segment must start at 0, got %f", segments[0].StartTime)
	}
	for i := 0; i < len(segments)-1; i++ {
		if math.Abs(segments[i].EndTime-segments[i+1].StartTime) > 1e-9 {
			t.Errorf("segments %d/%d not contiguous: %f vs %f",
				i, i+1, segments[i].EndTime, segments[i+1].StartTime)
		}
	}
}

func TestGenerateWordTimings(t *testing.T) {
	segments := Generate(testScript(), 0)

	for si, seg := range segments {
		if len(seg.Words) == 0 {
			t.Errorf("segment %d has no words", si)
			continue
		}
		// Слова равномерно делят длительность предложения.
		expected := (seg.EndTime - seg.StartTime) / float64(len(seg.Words))
		for wi, w := range seg.Words {
			if math.Abs((w.EndTime-w.StartTime)-expected) > 1e-9 {
				t.Errorf("segment %d word %d: duration %f, expected uniform %f",
					si, wi, w.EndTime-w.StartTime, expected)
			}
		}
		if math.Abs(seg.Words[0].StartTime-seg.StartTime) > 1e-9 {
			t.Errorf("segment %d: first word starts at %f, segment at %f",
				si, seg.Words[0].StartTime, seg.StartTime)
		}
		last := seg.Words[len(seg.Words)-1]
		if math.Abs(last.EndTime-seg.EndTime) > 1e-9 {
			t.Errorf("segment %d: last word ends at %f, segment at %f",
				si, last.EndTime, seg.EndTime)
		}
	}
}

func TestGenerateRescaleToNarration(t *testing.T) {
	base := Generate(testScript(), 0)
	scored := base[len(base)-1].EndTime

	actual := 42.0
	scaled := Generate(testScript(), actual)

	if math.Abs(scaled[len(scaled)-1].EndTime-actual) > 1e-6 {
		t.Errorf("rescaled segments must span %f, got %f", actual, scaled[len(scaled)-1].EndTime)
	}

	// Пропорции сегментов сохраняются при масштабировании.
	factor := actual / scored
	for i := range base {
		want := base[i].StartTime * factor
		if math.Abs(scaled[i].StartTime-want) > 1e-6 {
			t.Errorf("segment %d start %f, expected %f", i, scaled[i].StartTime, want)
		}
	}
}

func TestActiveSegment(t *testing.T) {
	segments := Generate(testScript(), 0)

	if got := ActiveSegment(segments, segments[0].StartTime); got != &segments[0] {
		t.Error("segment start time must select that segment")
	}
	// Конец окна полуоткрытый: EndTime принадлежит следующему сегменту.
	if got := ActiveSegment(segments, segments[0].EndTime); got != &segments[1] {
		t.Error("segment end time must select the next segment")
	}
	end := segments[len(segments)-1].EndTime
	if got := ActiveSegment(segments, end+1); got != nil {
		t.Error("past the last segment no caption may be shown")
	}
	if got := ActiveSegment(segments, -0.5); got != nil {
		t.Error("before the first segment no caption may be shown")
	}
}
