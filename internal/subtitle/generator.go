// Package subtitle derives time-stamped caption segments from a compiled
// script and paints them in five presentation styles.
package subtitle

import (
	"regexp"
	"strings"

	"github.com/devomil/pinehill-video/internal/script"
)

const wordsPerMinute = 150.0

// Word is a word-level caption sub-window. Word timings are a uniform
// linear split of the sentence duration, not prosody.
type Word struct {
	Text      string
	StartTime float64
	EndTime   float64
}

// Segment is a sentence-level caption window. Segments are contiguous and
// together span exactly the scored duration.
type Segment struct {
	Text      string
	StartTime float64
	EndTime   float64
	Words     []Word
}

var sentenceBoundary = regexp.MustCompile(`[^.!?]+[.!?]+|[^.!?]+$`)

// Generate produces caption segments for a parsed script. When the real
// narration duration is known (actualDuration > 0), every segment and word
// timestamp is rescaled by a single factor so relative proportions hold.
func Generate(p *script.ParsedScript, actualDuration float64) []Segment {
	var segments []Segment
	cursor := 0.0

	for _, sec := range p.Sections {
		text := strings.TrimSpace(sec.Title + ". " + sec.Body)
		for _, sentence := range sentenceBoundary.FindAllString(text, -1) {
			sentence = strings.TrimSpace(sentence)
			words := strings.Fields(sentence)
			if len(words) == 0 {
				continue
			}

			dur := float64(len(words)) / wordsPerMinute * 60.0
			seg := Segment{
				Text:      sentence,
				StartTime: cursor,
				EndTime:   cursor + dur,
			}

			wordDur := dur / float64(len(words))
			for i, w := range words {
				seg.Words = append(seg.Words, Word{
					Text:      w,
					StartTime: seg.StartTime + float64(i)*wordDur,
					EndTime:   seg.StartTime + float64(i+1)*wordDur,
				})
			}

			segments = append(segments, seg)
			cursor = seg.EndTime
		}
	}

	if actualDuration > 0 && cursor > 0 {
		Rescale(segments, actualDuration/cursor)
	}
	return segments
}

// Rescale multiplies every segment and word timestamp by factor.
func Rescale(segments []Segment, factor float64) {
	for i := range segments {
		segments[i].StartTime *= factor
		segments[i].EndTime *= factor
		for j := range segments[i].Words {
			segments[i].Words[j].StartTime *= factor
			segments[i].Words[j].EndTime *= factor
		}
	}
}

// ActiveSegment returns the segment whose [StartTime,EndTime) window
// contains t, or nil. No match means "draw nothing this frame" — captions
// must never show stale text.
func ActiveSegment(segments []Segment, t float64) *Segment {
	for i := range segments {
		if t >= segments[i].StartTime && t < segments[i].EndTime {
			return &segments[i]
		}
	}
	return nil
}

// activeWordIndex returns the index of the word being spoken at t, clamped
// to the last word once the sentence tail is reached.
func activeWordIndex(seg *Segment, t float64) int {
	for i := range seg.Words {
		if t >= seg.Words[i].StartTime && t < seg.Words[i].EndTime {
			return i
		}
	}
	if len(seg.Words) > 0 && t >= seg.Words[len(seg.Words)-1].EndTime {
		return len(seg.Words) - 1
	}
	return 0
}
