// Package timeline derives every timing fact of a quiz segment from its
// settings and a frame number. Nothing here keeps state between frames, so
// any frame can be resolved on its own, in any order, on any goroutine.
package timeline

import (
	"fmt"
	"math"

	"github.com/ivlev/quiz2video/internal/quiz"
)

// Timeline is the resolved timing state of one segment at one frame.
type Timeline struct {
	Frame            int
	RevealFrame      int
	RemainingSeconds int
	IsRevealed       bool
	TickFrames       []int
}

// At resolves the timeline of s at the given segment-local frame. s must come
// from quiz.Resolve: a non-positive frame rate or segment length panics.
func At(s quiz.Settings, frame int) Timeline {
	if s.FrameRate <= 0 {
		panic(fmt.Sprintf("timeline: %v: %d", quiz.ErrInvalidFrameRate, s.FrameRate))
	}
	if s.SegmentFrames <= 0 {
		panic(fmt.Sprintf("timeline: %v: %d", quiz.ErrInvalidSegmentLength, s.SegmentFrames))
	}
	reveal := RevealFrame(s)
	return Timeline{
		Frame:            frame,
		RevealFrame:      reveal,
		RemainingSeconds: RemainingSeconds(reveal, s.FrameRate, frame),
		IsRevealed:       frame >= reveal,
		TickFrames:       TickFrames(s.CountdownSeconds, reveal, s.FrameRate),
	}
}

// RevealSeconds is the later of the nominal countdown and the end of the
// voice-over (including its start delay).
func RevealSeconds(s quiz.Settings) float64 {
	return math.Max(float64(s.CountdownSeconds), s.VoiceDurationSeconds+s.VoiceoverOffsetSeconds)
}

// RevealFrame is the first frame showing the answer, always inside the segment.
func RevealFrame(s quiz.Settings) int {
	f := int(math.Round(RevealSeconds(s) * float64(s.FrameRate)))
	return max(0, min(f, s.SegmentFrames-1))
}

// RemainingSeconds is the countdown badge value: whole seconds until reveal,
// rounded up, never negative.
func RemainingSeconds(revealFrame, fps, frame int) int {
	left := math.Ceil(float64(revealFrame-frame) / float64(fps))
	return max(0, int(left))
}

// TickCount is the number of one-second ticks before the reveal. It is capped
// at the nominal countdown even when a long voice-over pushes the reveal back.
func TickCount(countdownSeconds, revealFrame, fps int) int {
	seconds := int(math.Ceil(float64(revealFrame) / float64(fps)))
	return max(0, min(countdownSeconds, max(1, seconds)))
}

// TickFrames lists the frames at which a tick starts: 0, fps, 2*fps, ...
func TickFrames(countdownSeconds, revealFrame, fps int) []int {
	n := TickCount(countdownSeconds, revealFrame, fps)
	frames := make([]int, n)
	for i := range frames {
		frames[i] = i * fps
	}
	return frames
}
