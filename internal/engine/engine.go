package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/quiz2video/internal/compositor"
	"github.com/ivlev/quiz2video/internal/config"
	"github.com/ivlev/quiz2video/internal/quiz"
	"github.com/ivlev/quiz2video/internal/renderer"
	"github.com/ivlev/quiz2video/internal/scenario"
	"github.com/ivlev/quiz2video/internal/sequencer"
	"github.com/ivlev/quiz2video/internal/system"
	"github.com/ivlev/quiz2video/internal/timeline"
	"github.com/ivlev/quiz2video/internal/video"
)

// ErrEmptyRange is returned when a requested frame range selects nothing.
var ErrEmptyRange = errors.New("empty frame range")

type VideoProject struct {
	Config      *config.Config
	Deck        *scenario.Deck
	Encoder     video.VideoEncoder
	Backgrounds renderer.Backgrounds
	Log         *zap.Logger

	// Probe measures media duration in seconds; system.ProbeDuration by default.
	Probe func(path string) (float64, error)
}

func NewVideoProject(cfg *config.Config, deck *scenario.Deck, ve video.VideoEncoder, bg renderer.Backgrounds, log *zap.Logger) *VideoProject {
	return &VideoProject{
		Config:      cfg,
		Deck:        deck,
		Encoder:     ve,
		Backgrounds: bg,
		Log:         log,
		Probe:       system.ProbeDuration,
	}
}

// RenderOptions selects what Run renders.
type RenderOptions struct {
	Composition string
	// From and To bound the global frames [From, To). To <= 0 means the end.
	From, To   int
	Output     string
	ProbeVoice bool
}

func (p *VideoProject) compositor() *compositor.Compositor {
	return compositor.New(compositor.AssetResolver{PublicDir: p.Config.PublicDir})
}

// Prepare looks up a composition, optionally filling missing voice
// durations from the voice-over files, and lays out its plan.
func (p *VideoProject) Prepare(id string, probeVoice bool) (scenario.Composition, sequencer.Plan, error) {
	comp, err := p.Deck.Composition(id)
	if err != nil {
		return comp, sequencer.Plan{}, err
	}
	if probeVoice {
		comp.Quizzes = p.probeVoices(comp.Quizzes)
	}
	plan, err := p.Deck.Plan(comp)
	return comp, plan, err
}

// probeVoices returns a copy of ds where every local voice-over without an
// explicit duration gets the probed one. Probe failures keep the default.
func (p *VideoProject) probeVoices(ds []quiz.Descriptor) []quiz.Descriptor {
	out := make([]quiz.Descriptor, len(ds))
	copy(out, ds)
	assets := compositor.AssetResolver{PublicDir: p.Config.PublicDir}

	for i := range out {
		d := &out[i]
		if d.VoiceDurationSeconds != nil || d.VoiceoverSrc == "" || compositor.IsRemote(d.VoiceoverSrc) {
			continue
		}
		path := assets.Resolve(d.VoiceoverSrc)
		dur, err := p.Probe(path)
		if err != nil {
			p.Log.Warn("voice duration probe failed", zap.String("quiz", d.ID), zap.String("path", path), zap.Error(err))
			continue
		}
		p.Log.Debug("voice duration probed", zap.String("quiz", d.ID), zap.Float64("seconds", dur))
		d.VoiceDurationSeconds = &dur
	}
	return out
}

// Still renders one global frame of a composition.
func (p *VideoProject) Still(ctx context.Context, id string, frame int, probeVoice bool) (*image.RGBA, error) {
	comp, plan, err := p.Prepare(id, probeVoice)
	if err != nil {
		return nil, err
	}
	at, ok := plan.Route(frame)
	if !ok {
		return nil, fmt.Errorf("frame %d outside %s (0-%d): %w", frame, comp.ID, plan.TotalFrames-1, ErrEmptyRange)
	}

	r, err := renderer.New(comp.Width, comp.Height, p.Backgrounds)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	s := plan.Segments[at.Segment]
	return r.Render(ctx, p.compositor().Compose(s, timeline.At(s, at.Local), at.Local))
}

// piece is the part of one segment that falls inside the rendered range.
type piece struct {
	segment    int
	from, to   int // segment-local [from, to)
	outputPath string
}

// pieces splits the global range [from, to) along segment boundaries.
func pieces(plan sequencer.Plan, from, to int) []piece {
	var out []piece
	for i := range plan.Segments {
		start, end := plan.SegmentRange(i)
		a, b := max(start, from), min(end, to)
		if a >= b {
			continue
		}
		out = append(out, piece{segment: i, from: a - start, to: b - start})
	}
	return out
}

// Run renders opts.Composition to opts.Output. An empty composition is a
// no-op that returns a nil report.
func (p *VideoProject) Run(ctx context.Context, opts RenderOptions) (*Report, error) {
	startTime := time.Now()
	report := &Report{RunID: uuid.NewString(), Composition: opts.Composition, Build: p.Config.BuildVersion}
	log := p.Log.With(zap.String("run", report.RunID), zap.String("composition", opts.Composition))

	comp, plan, err := p.Prepare(opts.Composition, opts.ProbeVoice)
	if err != nil {
		return nil, err
	}
	if plan.TotalFrames == 0 {
		log.Warn("composition has no quizzes, nothing to render")
		return nil, nil
	}

	from, to, err := ClampRange(plan.TotalFrames, opts.From, opts.To)
	if err != nil {
		return nil, err
	}
	parts := pieces(plan, from, to)
	report.Frames = to - from
	report.Segments = len(parts)

	encoder, quality := p.Config.VideoEncoder, p.Config.Quality
	if encoder == "" {
		encoder = system.GetBestH264Encoder(ctx)
	}
	if quality <= 0 {
		quality = system.DefaultQuality(encoder)
	}
	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.DefaultWorkers(ctx)
	}

	tempDir, err := os.MkdirTemp("", "quiz2video_")
	if err != nil {
		return nil, err
	}
	if p.Config.KeepTemp {
		log.Info("keeping temp dir", zap.String("path", tempDir))
	} else {
		defer os.RemoveAll(tempDir)
	}

	log.Info("render started",
		zap.Int("from", from), zap.Int("to", to),
		zap.Int("segments", len(parts)),
		zap.String("size", fmt.Sprintf("%dx%d@%d", comp.Width, comp.Height, comp.FPS)),
		zap.String("encoder", encoder), zap.Int("workers", workers))

	// Segment-level pipeline: each worker owns one renderer and one ffmpeg
	// process, frames inside a segment are produced in order.
	c := p.compositor()
	var done atomic.Int64
	renderStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range parts {
		pc := &parts[i]
		pc.outputPath = filepath.Join(tempDir, fmt.Sprintf("s%03d.mp4", i))
		g.Go(func() error {
			r, err := renderer.New(comp.Width, comp.Height, p.Backgrounds)
			if err != nil {
				return err
			}
			defer r.Close()

			s := plan.Segments[pc.segment]
			params := config.SegmentParams{
				Width:        comp.Width,
				Height:       comp.Height,
				FPS:          comp.FPS,
				Frames:       pc.to - pc.from,
				SegmentIndex: pc.segment,
				Encoder:      encoder,
				Quality:      quality,
			}
			next := func(ctx context.Context, i int) (*image.RGBA, func(), error) {
				local := pc.from + i
				img, err := r.Render(ctx, c.Compose(s, timeline.At(s, local), local))
				if err != nil {
					return nil, nil, err
				}
				return img, func() { system.PutImage(img) }, nil
			}
			if err := p.Encoder.EncodeFrames(gctx, pc.outputPath, params, next); err != nil {
				return fmt.Errorf("quiz %s: %w", s.ID, err)
			}
			log.Info("segment ready",
				zap.String("quiz", s.ID),
				zap.Int64("done", done.Add(1)),
				zap.Int("total", len(parts)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Render = time.Since(renderStart)

	paths := make([]string, len(parts))
	for i, pc := range parts {
		paths[i] = pc.outputPath
	}

	concatStart := time.Now()
	silent := filepath.Join(tempDir, "silent.mp4")
	if err := p.Encoder.Concatenate(ctx, paths, silent, tempDir); err != nil {
		return nil, fmt.Errorf("concatenate: %w", err)
	}
	report.Concat = time.Since(concatStart)

	muxStart := time.Now()
	cues := sequencer.Window(plan.GlobalCues(c, comp.Music, comp.MusicVolume), from, to)
	if err := os.MkdirAll(filepath.Dir(opts.Output), 0755); err != nil {
		return nil, err
	}
	if err := p.Encoder.MuxAudio(ctx, silent, cues, comp.FPS, to-from, opts.Output); err != nil {
		return nil, fmt.Errorf("mux audio: %w", err)
	}
	report.Mux = time.Since(muxStart)
	report.Cues = len(cues)
	report.Total = time.Since(startTime)

	log.Info("render finished",
		zap.String("output", opts.Output),
		zap.Int("cues", len(cues)),
		zap.Duration("elapsed", report.Total))

	if p.Config.ShowStats {
		p.writeStats(ctx, report)
	}
	return report, nil
}

// ClampRange limits [from, to) to [0, total). to <= 0 selects the end.
func ClampRange(total, from, to int) (int, int, error) {
	if to <= 0 || to > total {
		to = total
	}
	from = max(0, from)
	if from >= to {
		return 0, 0, fmt.Errorf("%w: %d-%d of %d frames", ErrEmptyRange, from, to, total)
	}
	return from, to, nil
}

// ParseFrames parses an inclusive "from-to" range ("0-89", "120-", "42")
// into the half-open [from, to) used by RenderOptions.
func ParseFrames(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, nil
	}
	lo, hi, isRange := strings.Cut(s, "-")
	from, err := strconv.Atoi(lo)
	if err != nil || from < 0 {
		return 0, 0, fmt.Errorf("invalid frame range %q", s)
	}
	if !isRange {
		return from, from + 1, nil
	}
	if hi == "" {
		return from, 0, nil
	}
	last, err := strconv.Atoi(hi)
	if err != nil || last < from {
		return 0, 0, fmt.Errorf("invalid frame range %q", s)
	}
	return from, last + 1, nil
}
