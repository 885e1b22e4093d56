package renderer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/quiz2video/internal/compositor"
	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/system"
	"github.com/ivlev/quiz2video/internal/timeline"
)

type solidBackgrounds struct {
	c   color.Color
	err error
}

func (s solidBackgrounds) Background(_ context.Context, _ string, w, h int) (image.Image, error) {
	if s.err != nil {
		return nil, s.err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(s.c), image.Point{}, draw.Src)
	return img, nil
}

func settings() quiz.Settings {
	return quiz.Settings{
		ID:               "1",
		Background:       "/bg.png",
		Question:         "Which planet is known as the Red Planet?",
		Options:          []string{"Venus", "Mars", "Jupiter"},
		CorrectIndex:     1,
		CountdownSeconds: 3,
		SegmentFrames:    150,
		FrameRate:        30,
		AccentColor:      quiz.Color{Hex: "#ff0000", RGBA: color.RGBA{R: 255, A: 255}},
		TextColor:        quiz.DefaultText,
	}
}

func compose(s quiz.Settings, frame int) compositor.Frame {
	c := compositor.New(compositor.AssetResolver{})
	return c.Compose(s, timeline.At(s, frame), frame)
}

func countReddish(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c.R > 150 && c.G < 80 && c.B < 80 {
				n++
			}
		}
	}
	return n
}

func TestRenderSizeAndBackground(t *testing.T) {
	r, err := New(216, 384, solidBackgrounds{c: color.White})
	require.NoError(t, err)
	defer r.Close()

	img, err := r.Render(context.Background(), compose(settings(), 30))
	require.NoError(t, err)
	defer system.PutImage(img)

	assert.Equal(t, image.Rect(0, 0, 216, 384), img.Bounds())

	// Left margin, mid height: only background, brightness and shading.
	px := img.RGBAAt(2, 192)
	assert.Less(t, px.R, uint8(170), "background is dimmed")
	assert.Greater(t, px.R, uint8(40))
	assert.Equal(t, uint8(255), px.A)
}

func TestRenderWithoutBackground(t *testing.T) {
	r, err := New(108, 192, nil)
	require.NoError(t, err)
	defer r.Close()

	f := compose(settings(), 0)
	f.Background.Source = ""
	img, err := r.Render(context.Background(), f)
	require.NoError(t, err)
	defer system.PutImage(img)

	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))
}

func TestRenderRevealHighlightsAccent(t *testing.T) {
	r, err := New(216, 384, solidBackgrounds{c: color.Black})
	require.NoError(t, err)
	defer r.Close()

	s := settings()
	before, err := r.Render(context.Background(), compose(s, 60))
	require.NoError(t, err)
	redBefore := countReddish(before)
	system.PutImage(before)

	after, err := r.Render(context.Background(), compose(s, 100))
	require.NoError(t, err)
	redAfter := countReddish(after)
	system.PutImage(after)

	assert.Greater(t, redAfter, redBefore+100, "correct row and banner pill switch to the accent")
}

func TestRenderErrors(t *testing.T) {
	_, err := New(0, 100, nil)
	assert.Error(t, err)

	boom := errors.New("boom")
	r, err := New(108, 192, solidBackgrounds{err: boom})
	require.NoError(t, err)
	defer r.Close()

	_, err = r.Render(context.Background(), compose(settings(), 0))
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Render(ctx, compose(settings(), 0))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithAlpha(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 255, A: 128}, withAlpha(color.RGBA{R: 255, A: 255}, 0.5))
	assert.Equal(t, uint8(0), withAlpha(color.White, -1).A)
	assert.Equal(t, uint8(255), withAlpha(color.White, 7).A)
}
