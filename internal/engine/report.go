package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ivlev/quiz2video/internal/system"
)

// Report is the timing summary of one Run.
type Report struct {
	RunID       string
	Build       string
	Composition string
	Frames      int
	Segments    int
	Cues        int

	Total  time.Duration
	Render time.Duration
	Concat time.Duration
	Mux    time.Duration
}

// FPS is the effective number of frames produced per wall-clock second.
func (r *Report) FPS() float64 {
	if r.Total <= 0 {
		return 0
	}
	return float64(r.Frames) / r.Total.Seconds()
}

func (r *Report) String() string {
	return fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Run: %s\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Render+Encode: %.2fs\n"+
			"Concatenation: %.2fs\n"+
			"Audio Mix: %.2fs\n"+
			"Effective FPS: %.2f\n"+
			"----------------------------\n",
		r.RunID, r.Build, r.Total.Seconds(), r.Render.Seconds(), r.Concat.Seconds(), r.Mux.Seconds(), r.FPS(),
	)
}

// LogLine is the benchmark log entry for r.
func (r *Report) LogLine(now time.Time, host system.HostInfo) string {
	return fmt.Sprintf("[%s] Run: %s | Build: %s | Composition: %s | Frames: %d | Segments: %d | Total: %.2fs | Render: %.2fs | FPS: %.2f | Host: %s\n",
		now.Format("2006-01-02 15:04:05"),
		r.RunID,
		r.Build,
		r.Composition,
		r.Frames,
		r.Segments,
		r.Total.Seconds(),
		r.Render.Seconds(),
		r.FPS(),
		host,
	)
}

func (p *VideoProject) writeStats(ctx context.Context, r *Report) {
	fmt.Print(r.String())

	served, allocated := system.PoolStats()
	p.Log.Debug("frame pool", zap.Int64("served", served), zap.Int64("allocated", allocated))

	if p.Config.BenchmarkLog == "" {
		return
	}
	f, err := os.OpenFile(p.Config.BenchmarkLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		p.Log.Warn("benchmark log write failed", zap.String("path", p.Config.BenchmarkLog), zap.Error(err))
		return
	}
	defer f.Close()
	if _, err := f.WriteString(r.LogLine(time.Now(), system.Host(ctx))); err != nil {
		p.Log.Warn("benchmark log write failed", zap.String("path", p.Config.BenchmarkLog), zap.Error(err))
	}
}
