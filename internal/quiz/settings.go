package quiz

import "fmt"

// Resolve turns a descriptor into fully populated Settings for a composition
// running at frameRate with compositionFrames total frames.
//
// Bad content is clamped, never rejected. Only structurally impossible timing
// (non-positive frame rate or segment length) is an error.
func Resolve(d Descriptor, frameRate, compositionFrames int) (Settings, error) {
	if frameRate <= 0 {
		return Settings{}, fmt.Errorf("quiz %q: %w (got %d)", d.ID, ErrInvalidFrameRate, frameRate)
	}

	segmentFrames := compositionFrames
	if d.SegmentDurationFrames != nil {
		segmentFrames = *d.SegmentDurationFrames
	}
	if segmentFrames <= 0 {
		return Settings{}, fmt.Errorf("quiz %q: %w (got %d)", d.ID, ErrInvalidSegmentLength, segmentFrames)
	}

	countdown := max(0, d.CountdownSeconds)

	voice := float64(countdown)
	if d.VoiceDurationSeconds != nil {
		voice = max(0, *d.VoiceDurationSeconds)
	}

	options := make([]string, len(d.Options))
	copy(options, d.Options)

	return Settings{
		ID:                     d.ID,
		Background:             d.BackgroundSrc,
		Question:               d.Question,
		Options:                options,
		CorrectIndex:           ClampIndex(d.CorrectIndex, len(options)),
		CountdownSeconds:       countdown,
		VoiceDurationSeconds:   voice,
		VoiceoverOffsetSeconds: max(0, d.VoiceoverOffsetSeconds),
		SegmentFrames:          segmentFrames,
		FrameRate:              frameRate,
		AccentColor:            ParseColor(d.AccentColor, DefaultAccent),
		TextColor:              ParseColor(d.TextColor, DefaultText),
		Voiceover:              d.VoiceoverSrc,
		BackgroundMusic:        d.BackgroundMusicSrc,
		Tick:                   d.TickSrc,
	}, nil
}

// ClampIndex forces i into [0, n-1]. With no options it returns 0.
func ClampIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	return min(n-1, max(0, i))
}
