package scenario

import "github.com/ivlev/quiz2video/internal/quiz"

// Deck is a set of quizzes plus the composition-level settings they share.
type Deck struct {
	Version string `yaml:"version"`
	FPS     int    `yaml:"fps"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`

	// DurationInFrames is the composition length used for any quiz without
	// its own segmentDurationInFrames.
	DurationInFrames int `yaml:"durationInFrames"`

	// Music is the shared bed laid under the combined composition.
	Music       string  `yaml:"music,omitempty"`
	MusicVolume float64 `yaml:"musicVolume,omitempty"`

	Quizzes []quiz.Descriptor `yaml:"quizzes"`
}

// Deck defaults match a vertical 1080x1920 short at 30 fps.
const (
	DefaultFPS              = 30
	DefaultWidth            = 1080
	DefaultHeight           = 1920
	DefaultDurationInFrames = 210
)

// applyDefaults fills unset composition fields. Quizzes without an id get
// their 1-based position, which is also what voice-<id>.mp3 expects.
func (d *Deck) applyDefaults() {
	if d.Version == "" {
		d.Version = "1.0"
	}
	if d.FPS == 0 {
		d.FPS = DefaultFPS
	}
	if d.Width == 0 {
		d.Width = DefaultWidth
	}
	if d.Height == 0 {
		d.Height = DefaultHeight
	}
	if d.DurationInFrames == 0 {
		d.DurationInFrames = DefaultDurationInFrames
	}
	for i := range d.Quizzes {
		if d.Quizzes[i].ID == "" {
			d.Quizzes[i].ID = itoa(i + 1)
		}
	}
}
