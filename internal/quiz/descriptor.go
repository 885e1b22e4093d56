package quiz

// Descriptor is one quiz segment as authored in a deck file.
// Optional fields are pointers so that "absent" and "zero" stay distinct.
type Descriptor struct {
	ID                     string   `yaml:"id,omitempty"`
	BackgroundSrc          string   `yaml:"backgroundSrc"`
	Question               string   `yaml:"question"`
	Options                []string `yaml:"options"`
	CorrectIndex           int      `yaml:"correctIndex"`
	CountdownSeconds       int      `yaml:"countdownSeconds"`
	VoiceDurationSeconds   *float64 `yaml:"voiceDurationSeconds,omitempty"`
	SegmentDurationFrames  *int     `yaml:"segmentDurationInFrames,omitempty"`
	AccentColor            string   `yaml:"accentColor"`
	TextColor              string   `yaml:"textColor"`
	VoiceoverSrc           string   `yaml:"voiceoverSrc,omitempty"`
	VoiceoverOffsetSeconds float64  `yaml:"voiceoverOffsetSeconds,omitempty"`
	BackgroundMusicSrc     string   `yaml:"backgroundMusicSrc,omitempty"`
	TickSrc                string   `yaml:"tickSrc,omitempty"`
}

// Settings is a Descriptor with every default applied and every
// tolerant-decode clamp done. Consumers never look at Descriptor directly.
type Settings struct {
	ID         string
	Background string
	Question   string
	Options    []string

	// CorrectIndex is always a valid index into Options (0 when Options is empty).
	CorrectIndex int

	CountdownSeconds       int
	VoiceDurationSeconds   float64
	VoiceoverOffsetSeconds float64

	SegmentFrames int
	FrameRate     int

	AccentColor Color
	TextColor   Color

	Voiceover       string
	BackgroundMusic string
	Tick            string
}

// HasOption reports whether i addresses an existing option.
func (s Settings) HasOption(i int) bool {
	return i >= 0 && i < len(s.Options)
}

// CorrectOption returns the text of the correct option or "" when there are none.
func (s Settings) CorrectOption() string {
	if !s.HasOption(s.CorrectIndex) {
		return ""
	}
	return s.Options[s.CorrectIndex]
}

// OptionLabel returns the letter shown next to option i: A, B, C...
func OptionLabel(i int) string {
	return string(rune('A' + i))
}
