package compositor

import "github.com/ivlev/quiz2video/internal/quiz"

// Frame is the full description of one rendered frame of a segment: the
// visual layers from back to front plus the segment's audio cues.
type Frame struct {
	Index int

	Background Background
	Overlay    Overlay
	Vignette   bool

	// ContentOpacity multiplies every foreground element; it follows the
	// question fade-in.
	ContentOpacity float64

	Question  Text
	Countdown Countdown
	Options   []OptionRow
	Banner    Banner

	Audio []Cue
}

type Background struct {
	Source     string
	Brightness float64
}

type Overlay struct {
	Alpha float64
}

type Text struct {
	Value   string
	Color   quiz.Color
	Opacity float64
}

type Countdown struct {
	Remaining int
	Caption   string
	Border    quiz.Color
}

type OptionRow struct {
	Index       int
	Label       string
	Text        string
	Highlighted bool
	// Fill is the accent color when highlighted; otherwise nil and the
	// renderer uses its neutral translucent fill.
	Fill        *quiz.Color
	TextColor   quiz.Color
	Opacity     float64
	TextOpacity float64
}

type Banner struct {
	Title    string
	Revealed bool
	Caption  string
	Label    string
	Answer   string
	Accent   quiz.Color
	Color    quiz.Color
}

// CueKind tells the mixer what a cue is; it only matters for logging and
// for picking default volumes.
type CueKind string

const (
	CueTick  CueKind = "tick"
	CueVoice CueKind = "voice"
	CueMusic CueKind = "music"
	CueBed   CueKind = "bed"
)

// Cue is a declarative audio instruction: play Source from StartFrame for
// DurationFrames, skipping the first SourceOffsetFrames of the source.
type Cue struct {
	Kind               CueKind
	Source             string
	StartFrame         int
	DurationFrames     int
	SourceOffsetFrames int
	Volume             float64
}

// EndFrame is the first frame after the cue.
func (c Cue) EndFrame() int {
	return c.StartFrame + c.DurationFrames
}
