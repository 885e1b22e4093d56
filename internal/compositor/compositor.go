// Package compositor builds the per-frame description of a quiz segment from
// its settings and resolved timeline.
package compositor

import (
	"math"

	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/timeline"
)

const (
	backgroundBrightness = 0.6
	overlayAlpha         = 0.35

	tickVolume  = 0.9
	voiceVolume = 1.0
	musicVolume = 0.6

	bannerTitle      = "Correct Answer"
	bannerPending    = "Reveals automatically after the countdown"
	countdownCaption = "Sec"
)

// Compositor turns (settings, timeline, frame) into a Frame. It holds no
// per-frame state and is safe for concurrent use.
type Compositor struct {
	Assets AssetResolver
}

func New(assets AssetResolver) *Compositor {
	return &Compositor{Assets: assets}
}

// Compose describes frame of the segment described by s.
func (c *Compositor) Compose(s quiz.Settings, tl timeline.Timeline, frame int) Frame {
	fade := timeline.QuestionOpacity(frame)

	f := Frame{
		Index: frame,
		Background: Background{
			Source:     c.Assets.Resolve(s.Background),
			Brightness: backgroundBrightness,
		},
		Overlay:        Overlay{Alpha: overlayAlpha},
		Vignette:       true,
		ContentOpacity: fade,
		Question: Text{
			Value:   s.Question,
			Color:   s.TextColor,
			Opacity: fade,
		},
		Countdown: Countdown{
			Remaining: tl.RemainingSeconds,
			Caption:   countdownCaption,
			Border:    s.AccentColor,
		},
		Options: make([]OptionRow, len(s.Options)),
		Banner: Banner{
			Title:    bannerTitle,
			Revealed: tl.IsRevealed,
			Accent:   s.AccentColor,
			Color:    s.TextColor,
		},
		Audio: c.SegmentCues(s, tl),
	}

	for i, text := range s.Options {
		row := OptionRow{
			Index:       i,
			Label:       quiz.OptionLabel(i),
			Text:        text,
			TextColor:   s.TextColor,
			Opacity:     timeline.OptionAppearance(i, frame),
			TextOpacity: timeline.OptionTextOpacity(i, frame),
		}
		if tl.IsRevealed && i == s.CorrectIndex {
			accent := s.AccentColor
			row.Highlighted = true
			row.Fill = &accent
		}
		f.Options[i] = row
	}

	if tl.IsRevealed && s.HasOption(s.CorrectIndex) {
		f.Banner.Label = quiz.OptionLabel(s.CorrectIndex)
		f.Banner.Answer = s.CorrectOption()
	} else {
		f.Banner.Caption = bannerPending
	}

	return f
}

// SegmentCues lists the audio cues of a segment in segment-local frames. The
// list is the same for every frame of the segment. Cues are clipped to the
// segment so nothing spills into the next one.
func (c *Compositor) SegmentCues(s quiz.Settings, tl timeline.Timeline) []Cue {
	var cues []Cue

	if music := c.Assets.Resolve(s.BackgroundMusic); music != "" {
		cues = append(cues, Cue{
			Kind:           CueMusic,
			Source:         music,
			DurationFrames: s.SegmentFrames,
			Volume:         musicVolume,
		})
	}

	if tick := c.Assets.Resolve(s.Tick); tick != "" {
		for _, start := range tl.TickFrames {
			if cue, ok := clip(Cue{
				Kind:           CueTick,
				Source:         tick,
				StartFrame:     start,
				DurationFrames: s.FrameRate,
				Volume:         tickVolume,
			}, s.SegmentFrames); ok {
				cues = append(cues, cue)
			}
		}
	}

	if voice := c.Assets.Resolve(s.Voiceover); voice != "" {
		start := VoiceoverStartFrame(s)
		if cue, ok := clip(Cue{
			Kind:           CueVoice,
			Source:         voice,
			StartFrame:     start,
			DurationFrames: s.SegmentFrames - start,
			Volume:         voiceVolume,
		}, s.SegmentFrames); ok {
			cues = append(cues, cue)
		}
	}

	return cues
}

// VoiceoverStartFrame is the segment-local frame where narration begins.
func VoiceoverStartFrame(s quiz.Settings) int {
	return max(0, int(math.Round(s.VoiceoverOffsetSeconds*float64(s.FrameRate))))
}

// clip trims a cue to [0, limit). It reports false when nothing is left.
func clip(c Cue, limit int) (Cue, bool) {
	if c.StartFrame >= limit || c.DurationFrames <= 0 {
		return Cue{}, false
	}
	if c.EndFrame() > limit {
		c.DurationFrames = limit - c.StartFrame
	}
	return c, true
}
