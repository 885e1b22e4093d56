package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/quiz2video/internal/scenario"
	"github.com/ivlev/quiz2video/internal/system"
	"github.com/ivlev/quiz2video/internal/voice"
)

// newVoicesCmd synthesizes voice-<id>.mp3 for every quiz.
func newVoicesCmd(a *app) *cobra.Command {
	var (
		records    string
		fromDeck   bool
		outDir     string
		updateDeck bool
	)

	cmd := &cobra.Command{
		Use:   "voices",
		Short: "Generate voice-overs with a text-to-speech model",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := a.logger()
			if err != nil {
				return err
			}
			defer log.Sync()
			cfg, err := a.config()
			if err != nil {
				return err
			}

			if outDir == "" {
				outDir = cfg.PublicDir
			}
			if updateDeck {
				if _, err := publicRef(cfg.PublicDir, outDir); err != nil {
					return fmt.Errorf("--update-deck: %w", err)
				}
			}

			if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
				log.Warn("could not read .env", zap.Error(err))
			}
			apiKey := os.Getenv(cfg.TTS.APIKeyEnv)
			if apiKey == "" {
				return fmt.Errorf("%s is not set", cfg.TTS.APIKeyEnv)
			}

			var (
				deck     *scenario.Deck
				deckPath string
			)
			if fromDeck || updateDeck {
				deck, deckPath, err = a.deck(log)
				if err != nil {
					return err
				}
			}

			var recs []voice.Record
			if fromDeck {
				recs = voice.FromDescriptors(deck.Quizzes)
			} else {
				path := records
				if path == "" {
					path = cfg.TTS.RecordsPath
				}
				recs, err = voice.LoadRecords(path)
				if err != nil {
					return err
				}
			}

			client := voice.NewClient(log, cfg.TTS.BaseURL, apiKey)
			client.Model = cfg.TTS.Model
			client.Voice = cfg.TTS.Voice
			client.Instructions = cfg.TTS.Instructions

			paths, err := client.GenerateAll(cmd.Context(), recs, outDir)
			if err != nil {
				return err
			}
			log.Info("voices generated", zap.Int("count", len(paths)), zap.String("dir", outDir))

			if updateDeck {
				return attachVoices(log, deck, deckPath, outDir, cfg.PublicDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&records, "records", "", "JSON records {id, question, answer} (default from config)")
	cmd.Flags().BoolVar(&fromDeck, "from-deck", false, "read questions and answers from the deck instead of records")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory for voice files (default: public dir)")
	cmd.Flags().BoolVar(&updateDeck, "update-deck", false, "point deck quizzes at their voice files and store measured durations")
	return cmd
}

// attachVoices sets voiceoverSrc and voiceDurationSeconds for every deck
// quiz whose voice file exists in dir, then rewrites the deck. dir must lie
// inside publicDir so the references resolve back to the files.
func attachVoices(log *zap.Logger, deck *scenario.Deck, deckPath, dir, publicDir string) error {
	for i := range deck.Quizzes {
		q := &deck.Quizzes[i]
		path := filepath.Join(dir, voice.FileName(voice.ID(q.ID)))
		if _, err := os.Stat(path); err != nil {
			continue
		}
		ref, err := publicRef(publicDir, path)
		if err != nil {
			return err
		}
		q.VoiceoverSrc = ref
		dur, err := system.ProbeDuration(path)
		if err != nil {
			log.Warn("voice duration probe failed", zap.String("path", path), zap.Error(err))
			continue
		}
		q.VoiceDurationSeconds = &dur
	}
	return scenario.WriteDeck(deck, deckPath)
}

// publicRef returns the "/"-rooted reference under which the asset resolver
// finds path inside publicDir.
func publicRef(publicDir, path string) (string, error) {
	base, err := filepath.Abs(publicDir)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside the public dir %s", path, publicDir)
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + filepath.ToSlash(rel), nil
}
