package system

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseProbeDuration(t *testing.T) {
	d, err := parseProbeDuration(`{"streams":[],"format":{"filename":"voice-1.mp3","duration":"6.125000"}}`)
	require.NoError(t, err)
	assert.InDelta(t, 6.125, d, 1e-9)

	_, err = parseProbeDuration(`{"format":{}}`)
	assert.Error(t, err)

	_, err = parseProbeDuration(`not json`)
	assert.Error(t, err)

	_, err = parseProbeDuration(`{"format":{"duration":"N/A"}}`)
	assert.Error(t, err)
}

func TestPickEncoder(t *testing.T) {
	assert.Equal(t, "h264_videotoolbox", pickEncoder(" V....D h264_videotoolbox  VideoToolbox H.264 Encoder"))
	assert.Equal(t, "h264_nvenc", pickEncoder(" V....D libx264\n V....D h264_nvenc"))
	assert.Equal(t, "libx264", pickEncoder(" V....D libx264"))
}

func TestDefaultQuality(t *testing.T) {
	assert.Equal(t, 75, DefaultQuality("h264_videotoolbox"))
	assert.Equal(t, 20, DefaultQuality("libx264"))
}

func TestHost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := Host(ctx)
	assert.Positive(t, h.LogicalCPUs)
	assert.NotEmpty(t, h.CPUModel)
	assert.Contains(t, h.String(), "RAM")
	assert.GreaterOrEqual(t, DefaultWorkers(ctx), 1)
}

func TestImagePoolReuse(t *testing.T) {
	rect := image.Rect(0, 0, 8, 8)
	img := GetImage(rect)
	require.Equal(t, rect, img.Rect)
	PutImage(img)
	PutImage(nil)

	other := GetImage(image.Rect(0, 0, 4, 4))
	assert.Equal(t, 4, other.Rect.Dx())
}

func TestImagePoolCountsAllocations(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 2, 2)

	a := p.Get(rect)
	b := p.Get(rect)
	assert.NotSame(t, a, b)
	assert.EqualValues(t, 2, p.served.Load())
	assert.EqualValues(t, 2, p.allocated.Load())

	// Foreign sizes are dropped, not pooled.
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
	p.mu.RLock()
	assert.Len(t, p.pools, 1)
	p.mu.RUnlock()
}

func TestInitResourceLimitsLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	InitResourceLimits(zap.New(core))

	require.Equal(t, 1, logs.Len())
	assert.Contains(t, []string{
		"open file limit raised",
		"open file limit not raised",
		"open file limit unavailable",
	}, logs.All()[0].Message)
}
