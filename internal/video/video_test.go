package video

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivlev/quiz2video/internal/compositor"
	"github.com/ivlev/quiz2video/internal/config"
)

func TestBuildFFmpegArgs(t *testing.T) {
	e := &FFmpegEncoder{}
	params := config.SegmentParams{Width: 1080, Height: 1920, FPS: 30, Frames: 300, Encoder: "libx264", Quality: 23}

	args := e.buildFFmpegArgs("seg_000.mp4", params)
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-video_size 1080x1920")
	assert.Contains(t, joined, "-framerate 30")
	assert.Contains(t, joined, "-frames:v 300")
	assert.Contains(t, joined, "-crf 23 -preset medium")
	assert.Equal(t, "seg_000.mp4", args[len(args)-1])
}

func TestQualityArgs(t *testing.T) {
	assert.Equal(t, []string{"-b:v", "7500k"}, qualityArgs("h264_videotoolbox", 75))
	assert.Equal(t, []string{"-cq", "28"}, qualityArgs("h264_nvenc", 28))
	assert.Equal(t, []string{"-crf", "18", "-preset", "medium"}, qualityArgs("libx264", 18))
}

func TestWriteRawRGBARepacksSubImages(t *testing.T) {
	e := &FFmpegEncoder{}
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	big.SetRGBA(1, 1, color.RGBA{R: 9, A: 255})
	sub := big.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	var buf bytes.Buffer
	require.NoError(t, e.writeRawRGBA(&buf, sub, 2, 2))
	assert.Equal(t, 2*2*4, buf.Len())
	assert.Equal(t, byte(9), buf.Bytes()[0])
}

func TestMuxArgs(t *testing.T) {
	assert.Nil(t, MuxArgs("in.mp4", nil, 30, 90, "out.mp4"))

	cues := []compositor.Cue{
		{Kind: compositor.CueBed, Source: "bed.mp3", DurationFrames: 90, Volume: 0.5},
		{Kind: compositor.CueTick, Source: "tick.mp3", StartFrame: 30, DurationFrames: 30, Volume: 0.9},
	}
	args := MuxArgs("in.mp4", cues, 30, 90, "out.mp4")
	joined := strings.Join(args, " ")

	assert.Contains(t, joined, "-i in.mp4")
	assert.Contains(t, joined, "-i bed.mp3")
	assert.Contains(t, joined, "-i tick.mp3")
	assert.Contains(t, joined, "amix=")
	assert.Contains(t, joined, "-c:v copy")
	assert.Contains(t, args, "-y")

	fc := slices.Index(args, "-filter_complex")
	out := slices.Index(args, "out.mp4")
	require.GreaterOrEqual(t, fc, 0)
	assert.Greater(t, out, fc+1)
}

func TestMuxArgsIdenticalCues(t *testing.T) {
	cues := []compositor.Cue{
		{Kind: compositor.CueMusic, Source: "public/bgm.mp3", DurationFrames: 210, Volume: 0.6},
		{Kind: compositor.CueBed, Source: "public/bgm.mp3", DurationFrames: 210, Volume: 0.6},
	}

	var args []string
	require.NotPanics(t, func() { args = MuxArgs("in.mp4", cues, 30, 210, "out.mp4") })
	assert.Contains(t, strings.Join(args, " "), "asplit=2")
}

func TestWriteConcatList(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "inputs.txt")
	require.NoError(t, writeConcatList(list, []string{filepath.Join(dir, "a.mp4"), filepath.Join(dir, "b.mp4")}))

	data, err := os.ReadFile(list)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "file '"+filepath.Join(dir, "a.mp4")+"'", lines[0])
}

func TestConcatenateSingleSegmentCopies(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "seg.mp4")
	require.NoError(t, os.WriteFile(src, []byte("video"), 0644))

	e := &FFmpegEncoder{}
	dst := filepath.Join(dir, "final.mp4")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, e.Concatenate(ctx, []string{src}, dst, dir))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "video", string(data))

	assert.Error(t, e.Concatenate(ctx, nil, dst, dir))
}
