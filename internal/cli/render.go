package cli

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/quiz2video/internal/engine"
	"github.com/ivlev/quiz2video/internal/scenario"
	"github.com/ivlev/quiz2video/internal/source"
	"github.com/ivlev/quiz2video/internal/system"
	"github.com/ivlev/quiz2video/internal/video"
)

// newRenderCmd renders a composition, or a frame range of it, to mp4.
func newRenderCmd(a *app) *cobra.Command {
	var (
		composition string
		frames      string
		out         string
		probeVoice  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a composition to video",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, deck, _, err := a.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			from, to, err := engine.ParseFrames(frames)
			if err != nil {
				return err
			}

			// Увеличиваем лимиты системы (для macOS/Linux)
			system.InitResourceLimits(log)

			if out == "" {
				if err := ensureDir(cfg.OutputDir); err != nil {
					return err
				}
				out = scenario.GenerateOutputPath(cfg.OutputDir, composition)
			}

			loader := source.NewLoader(cfg.DPI, "", log)
			project := engine.NewVideoProject(cfg, deck, &video.FFmpegEncoder{}, loader, log)
			report, err := project.Run(cmd.Context(), engine.RenderOptions{
				Composition: composition,
				From:        from,
				To:          to,
				Output:      out,
				ProbeVoice:  probeVoice,
			})
			if err != nil {
				return err
			}
			if report != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&composition, "composition", "c", scenario.CombinedID, "composition id")
	cmd.Flags().StringVar(&frames, "frames", "", "inclusive frame range, e.g. 0-89 or 120-")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output video (default: timestamped file in the output dir)")
	cmd.Flags().BoolVar(&probeVoice, "probe-voice", false, "measure voice-over files for quizzes without voiceDurationSeconds")
	return cmd
}

// newStillCmd renders a single frame to PNG.
func newStillCmd(a *app) *cobra.Command {
	var (
		composition string
		frame       int
		out         string
		probeVoice  bool
	)

	cmd := &cobra.Command{
		Use:   "still",
		Short: "Render one frame of a composition to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, cfg, deck, _, err := a.setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			loader := source.NewLoader(cfg.DPI, "", log)
			project := engine.NewVideoProject(cfg, deck, &video.FFmpegEncoder{}, loader, log)
			img, err := project.Still(cmd.Context(), composition, frame, probeVoice)
			if err != nil {
				return err
			}
			defer system.PutImage(img)

			if out == "" {
				if err := ensureDir(cfg.OutputDir); err != nil {
					return err
				}
				out = filepath.Join(cfg.OutputDir, fmt.Sprintf("%s_%d.png", composition, frame))
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Info("still saved", zap.String("path", out), zap.Int("frame", frame))
			return nil
		},
	}

	cmd.Flags().StringVarP(&composition, "composition", "c", scenario.SingleID, "composition id")
	cmd.Flags().IntVarP(&frame, "frame", "f", 0, "global frame number")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output PNG")
	cmd.Flags().BoolVar(&probeVoice, "probe-voice", false, "measure voice-over files for quizzes without voiceDurationSeconds")
	return cmd
}
