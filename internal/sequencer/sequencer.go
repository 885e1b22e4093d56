// Package sequencer lays quiz segments end to end on one master timeline.
package sequencer

import (
	"sort"

	"github.com/ivlev/quiz2video/internal/compositor"
	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/timeline"
)

const bedVolume = 0.5

// Plan is the layout of a combined render.
type Plan struct {
	Segments []quiz.Settings
	// Offsets[i] is the global frame at which segment i starts.
	Offsets     []int
	TotalFrames int
}

// Placement locates a global frame inside one segment.
type Placement struct {
	Segment int
	Local   int
}

// NewPlan accumulates segment offsets in list order. An empty list gives a
// zero-length plan.
func NewPlan(segments []quiz.Settings) Plan {
	p := Plan{
		Segments: segments,
		Offsets:  make([]int, len(segments)),
	}
	for i, s := range segments {
		p.Offsets[i] = p.TotalFrames
		p.TotalFrames += s.SegmentFrames
	}
	return p
}

// Route maps a global frame to its segment and segment-local frame. It
// reports false for frames outside [0, TotalFrames).
func (p Plan) Route(global int) (Placement, bool) {
	if global < 0 || global >= p.TotalFrames {
		return Placement{}, false
	}
	i := sort.Search(len(p.Offsets), func(i int) bool { return p.Offsets[i] > global }) - 1
	return Placement{Segment: i, Local: global - p.Offsets[i]}, true
}

// SegmentRange returns the global [start, end) frames of segment i.
func (p Plan) SegmentRange(i int) (int, int) {
	return p.Offsets[i], p.Offsets[i] + p.Segments[i].SegmentFrames
}

// BedCue is the shared background music that spans the whole plan. It starts
// once at global frame 0 and is never re-triggered per segment.
func (p Plan) BedCue(source string, volume float64) (compositor.Cue, bool) {
	if source == "" || p.TotalFrames == 0 {
		return compositor.Cue{}, false
	}
	if volume <= 0 {
		volume = bedVolume
	}
	return compositor.Cue{
		Kind:           compositor.CueBed,
		Source:         source,
		DurationFrames: p.TotalFrames,
		Volume:         volume,
	}, true
}

// GlobalCues collects every segment's cues shifted onto the master timeline,
// followed by the shared bed cue when bedSource is set.
func (p Plan) GlobalCues(c *compositor.Compositor, bedSource string, bedVol float64) []compositor.Cue {
	var cues []compositor.Cue
	for i, s := range p.Segments {
		for _, cue := range c.SegmentCues(s, timeline.At(s, 0)) {
			cue.StartFrame += p.Offsets[i]
			cues = append(cues, cue)
		}
	}
	if bed, ok := p.BedCue(c.Assets.Resolve(bedSource), bedVol); ok {
		cues = append(cues, bed)
	}
	return cues
}

// Window clips cues to the global range [from, to) and rebases them so that
// from becomes frame 0. A cue already playing at from keeps its alignment by
// seeking into the source instead of being delayed.
func Window(cues []compositor.Cue, from, to int) []compositor.Cue {
	var out []compositor.Cue
	for _, c := range cues {
		start := max(c.StartFrame, from)
		end := min(c.EndFrame(), to)
		if end <= start {
			continue
		}
		c.SourceOffsetFrames += start - c.StartFrame
		c.StartFrame = start - from
		c.DurationFrames = end - start
		out = append(out, c)
	}
	return out
}
