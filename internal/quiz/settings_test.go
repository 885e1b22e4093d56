package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleDescriptor() Descriptor {
	return Descriptor{
		ID:               "1",
		BackgroundSrc:    "https://example.com/bg.jpg",
		Question:         "What has keys but can't open any doors?",
		Options:          []string{"A map", "A piano", "A lock", "A keyboard"},
		CorrectIndex:     1,
		CountdownSeconds: 6,
		AccentColor:      "#22c55e",
		TextColor:        "#ffffff",
		VoiceoverSrc:     "/voice-1.mp3",
		TickSrc:          "/tick.mp3",
	}
}

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(sampleDescriptor(), 30, 210)
	require.NoError(t, err)

	assert.Equal(t, 6.0, s.VoiceDurationSeconds, "voice duration falls back to countdown")
	assert.Equal(t, 210, s.SegmentFrames, "segment length falls back to composition length")
	assert.Equal(t, 0.0, s.VoiceoverOffsetSeconds)
	assert.Equal(t, 30, s.FrameRate)
	assert.Equal(t, "A piano", s.CorrectOption())
}

func TestResolveExplicitValues(t *testing.T) {
	d := sampleDescriptor()
	d.VoiceDurationSeconds = ptr(10.0)
	d.SegmentDurationFrames = ptr(300)
	d.VoiceoverOffsetSeconds = 2

	s, err := Resolve(d, 30, 210)
	require.NoError(t, err)

	assert.Equal(t, 10.0, s.VoiceDurationSeconds)
	assert.Equal(t, 300, s.SegmentFrames)
	assert.Equal(t, 2.0, s.VoiceoverOffsetSeconds)
}

func TestResolveClampsCorrectIndex(t *testing.T) {
	tests := []struct {
		name    string
		index   int
		options []string
		want    int
	}{
		{"too large", 99, []string{"a", "b", "c", "d"}, 3},
		{"negative", -4, []string{"a", "b"}, 0},
		{"in range", 2, []string{"a", "b", "c"}, 2},
		{"no options", 5, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := sampleDescriptor()
			d.CorrectIndex = tt.index
			d.Options = tt.options

			s, err := Resolve(d, 30, 210)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.CorrectIndex)
		})
	}
}

func TestResolveToleratesOddOptionCounts(t *testing.T) {
	d := sampleDescriptor()
	d.Options = []string{"only"}
	s, err := Resolve(d, 30, 210)
	require.NoError(t, err)
	assert.Equal(t, "only", s.CorrectOption())

	d.Options = []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	d.CorrectIndex = 7
	s, err = Resolve(d, 30, 210)
	require.NoError(t, err)
	assert.Equal(t, 7, s.CorrectIndex)
	assert.Equal(t, "H", OptionLabel(s.CorrectIndex))
}

func TestResolveNegativeOffsetsAreZeroed(t *testing.T) {
	d := sampleDescriptor()
	d.VoiceoverOffsetSeconds = -3
	d.CountdownSeconds = -1

	s, err := Resolve(d, 30, 210)
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.VoiceoverOffsetSeconds)
	assert.Equal(t, 0, s.CountdownSeconds)
}

func TestResolveRejectsImpossibleTiming(t *testing.T) {
	_, err := Resolve(sampleDescriptor(), 0, 210)
	require.ErrorIs(t, err, ErrInvalidFrameRate)

	_, err = Resolve(sampleDescriptor(), -30, 210)
	require.ErrorIs(t, err, ErrInvalidFrameRate)

	_, err = Resolve(sampleDescriptor(), 30, 0)
	require.ErrorIs(t, err, ErrInvalidSegmentLength)

	d := sampleDescriptor()
	d.SegmentDurationFrames = ptr(-1)
	_, err = Resolve(d, 30, 210)
	require.ErrorIs(t, err, ErrInvalidSegmentLength)
}

func TestResolveCopiesOptions(t *testing.T) {
	d := sampleDescriptor()
	s, err := Resolve(d, 30, 210)
	require.NoError(t, err)

	d.Options[0] = "changed"
	assert.Equal(t, "A map", s.Options[0])
}

func TestParseColor(t *testing.T) {
	c := ParseColor("#ff0000", DefaultAccent)
	assert.Equal(t, uint8(0xff), c.RGBA.R)
	assert.Equal(t, uint8(0), c.RGBA.G)
	assert.Equal(t, "#ff0000", c.Hex)

	assert.Equal(t, DefaultAccent, ParseColor("", DefaultAccent))
	assert.Equal(t, DefaultText, ParseColor("not-a-color", DefaultText))
}

func TestOptionLabel(t *testing.T) {
	assert.Equal(t, "A", OptionLabel(0))
	assert.Equal(t, "D", OptionLabel(3))
}
