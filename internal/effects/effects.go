// Package effects turns declarative audio cues into ffmpeg filter chains.
package effects

import (
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ivlev/quiz2video/internal/compositor"
)

// Effect is one step of a cue's filter chain.
type Effect interface {
	Apply(s *ffmpeg.Stream, c compositor.Cue, fps int) *ffmpeg.Stream
}

// DelayEffect moves the cue to its start frame on the output timeline.
type DelayEffect struct{}

func (DelayEffect) Apply(s *ffmpeg.Stream, c compositor.Cue, fps int) *ffmpeg.Stream {
	ms := int64(max(0, c.StartFrame)) * 1000 / int64(fps)
	return s.Filter("adelay", nil, ffmpeg.KwArgs{"delays": ms, "all": 1})
}

// TrimEffect ends the cue after DurationFrames of audible source.
type TrimEffect struct{}

func (TrimEffect) Apply(s *ffmpeg.Stream, c compositor.Cue, fps int) *ffmpeg.Stream {
	return s.Filter("atrim", nil, ffmpeg.KwArgs{"end": Seconds(max(0, c.StartFrame)+c.DurationFrames, fps)})
}

// GainEffect applies the cue volume. Unity gain adds nothing to the graph.
type GainEffect struct{}

func (GainEffect) Apply(s *ffmpeg.Stream, c compositor.Cue, fps int) *ffmpeg.Stream {
	if c.Volume == 1 {
		return s
	}
	return s.Filter("volume", ffmpeg.Args{strconv.FormatFloat(max(0, c.Volume), 'f', -1, 64)})
}

// DefaultChain is applied to every cue, in order.
var DefaultChain = []Effect{DelayEffect{}, TrimEffect{}, GainEffect{}}

// CueStream opens the cue source, seeking past SourceOffsetFrames, and runs
// it through chain.
func CueStream(c compositor.Cue, fps int, chain []Effect) *ffmpeg.Stream {
	return applyChain(openCue(c, fps), c, fps, chain)
}

func openCue(c compositor.Cue, fps int) *ffmpeg.Stream {
	if c.SourceOffsetFrames > 0 {
		return ffmpeg.Input(c.Source, ffmpeg.KwArgs{"ss": Seconds(c.SourceOffsetFrames, fps)}).Audio()
	}
	return ffmpeg.Input(c.Source).Audio()
}

func applyChain(s *ffmpeg.Stream, c compositor.Cue, fps int, chain []Effect) *ffmpeg.Stream {
	for _, e := range chain {
		s = e.Apply(s, c, fps)
	}
	return s
}

// cueInputs returns one input stream per cue. Cues reading the same source
// at the same seek share one input through asplit, so equal filter chains
// never collapse into a single graph node.
func cueInputs(cues []compositor.Cue, fps int) []*ffmpeg.Stream {
	type inputKey struct {
		source string
		offset int
	}
	groups := make(map[inputKey][]int)
	var order []inputKey
	for i, c := range cues {
		k := inputKey{c.Source, max(0, c.SourceOffsetFrames)}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}

	out := make([]*ffmpeg.Stream, len(cues))
	for _, k := range order {
		idx := groups[k]
		in := openCue(cues[idx[0]], fps)
		if len(idx) == 1 {
			out[idx[0]] = in
			continue
		}
		split := in.ASplit()
		for n, i := range idx {
			out[i] = split.Get(strconv.Itoa(n))
		}
	}
	return out
}

// Mix sums the cue streams without level normalization and pads or cuts the
// result to exactly totalFrames. It returns nil when there is nothing to mix.
func Mix(cues []compositor.Cue, fps, totalFrames int) *ffmpeg.Stream {
	if len(cues) == 0 || totalFrames <= 0 {
		return nil
	}

	inputs := cueInputs(cues, fps)
	streams := make([]*ffmpeg.Stream, 0, len(cues))
	for i, c := range cues {
		streams = append(streams, applyChain(inputs[i], c, fps, DefaultChain))
	}

	mixed := streams[0]
	if len(streams) > 1 {
		mixed = ffmpeg.Filter(streams, "amix", nil, ffmpeg.KwArgs{
			"inputs":             len(streams),
			"duration":           "longest",
			"dropout_transition": 0,
			"normalize":          0,
		})
	}

	total := Seconds(totalFrames, fps)
	return mixed.
		Filter("apad", nil, ffmpeg.KwArgs{"whole_dur": total}).
		Filter("atrim", nil, ffmpeg.KwArgs{"duration": total})
}

// Seconds formats a frame count as seconds for ffmpeg options.
func Seconds(frames, fps int) string {
	return strconv.FormatFloat(float64(frames)/float64(fps), 'f', 6, 64)
}
