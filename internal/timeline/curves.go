package timeline

import "fmt"

// Choreography constants. They are a fixed visual rhythm, not tuning knobs.
const (
	questionFadeFrames = 15

	optionAppearStart   = 10
	optionAppearEnd     = 20
	optionAppearStagger = 6

	optionTextFadeEnd     = 10
	optionTextFadeStagger = 3
	optionTextMinOpacity  = 0.3
)

// ElementKind identifies which animated element a curve belongs to.
type ElementKind int

const (
	Question ElementKind = iota
	OptionAppear
	OptionText
)

// Element addresses one animated element; Index is the option index and is
// ignored for Question.
type Element struct {
	Kind  ElementKind
	Index int
}

func (e Element) String() string {
	switch e.Kind {
	case Question:
		return "question"
	case OptionAppear:
		return fmt.Sprintf("option[%d]", e.Index)
	case OptionText:
		return fmt.Sprintf("option-text[%d]", e.Index)
	}
	return "unknown"
}

// FadeProgress returns the opacity of element e at frame, in [0,1].
func FadeProgress(e Element, frame int) float64 {
	switch e.Kind {
	case Question:
		return QuestionOpacity(frame)
	case OptionAppear:
		return OptionAppearance(e.Index, frame)
	case OptionText:
		return OptionTextOpacity(e.Index, frame)
	}
	return 1
}

// QuestionOpacity ramps 0 -> 1 over frames [0,15].
func QuestionOpacity(frame int) float64 {
	return Interpolate(float64(frame), 0, questionFadeFrames, 0, 1)
}

// OptionAppearance ramps 0 -> 1 over [10+6i, 20+6i].
func OptionAppearance(i, frame int) float64 {
	start := float64(optionAppearStart + i*optionAppearStagger)
	end := float64(optionAppearEnd + i*optionAppearStagger)
	return Interpolate(float64(frame), start, end, 0, 1)
}

// OptionTextOpacity ramps 0.3 -> 1 over [0, 10+3i].
func OptionTextOpacity(i, frame int) float64 {
	end := float64(optionTextFadeEnd + i*optionTextFadeStagger)
	return Interpolate(float64(frame), 0, end, optionTextMinOpacity, 1)
}

// Interpolate maps x from [inStart,inEnd] onto [outStart,outEnd], clamping
// on both sides.
func Interpolate(x, inStart, inEnd, outStart, outEnd float64) float64 {
	if x <= inStart {
		return outStart
	}
	if x >= inEnd {
		return outEnd
	}
	t := (x - inStart) / (inEnd - inStart)
	return lerp(outStart, outEnd, t)
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
