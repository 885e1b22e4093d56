package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ivlev/quiz2video/internal/config"
	"github.com/ivlev/quiz2video/internal/scenario"
)

// app carries the persistent flags shared by every command.
type app struct {
	configPath string
	deckPath   string
	verbose    bool
}

// ExecuteContext runs the CLI; ctx is cancelled on interrupt.
func ExecuteContext(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "quiz2video",
		Short:         "Render countdown quiz videos from YAML decks",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config file (default ./quiz2video.yaml)")
	cmd.PersistentFlags().StringVar(&a.deckPath, "deck", "", "path to deck file (default: newest deck in input/decks)")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newCompositionsCmd(a))
	cmd.AddCommand(newPlanCmd(a))
	cmd.AddCommand(newStillCmd(a))
	cmd.AddCommand(newRenderCmd(a))
	cmd.AddCommand(newVoicesCmd(a))
	return cmd
}

func (a *app) logger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if a.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func (a *app) config() (*config.Config, error) {
	return config.Load(a.configPath)
}

// deck loads --deck, falling back to the newest deck on disk.
func (a *app) deck(log *zap.Logger) (*scenario.Deck, string, error) {
	path := a.deckPath
	if path == "" {
		latest, err := scenario.FindLatestDeck(scenario.DecksDir)
		if err != nil {
			return nil, "", fmt.Errorf("%w. Pass --deck or put a deck into %s", err, scenario.DecksDir)
		}
		path = latest
		log.Info("deck selected", zap.String("path", path))
	}
	d, err := scenario.ReadDeck(path)
	if err != nil {
		return nil, "", err
	}
	return d, path, nil
}

// setup is the common prologue: logger, config and deck.
func (a *app) setup() (*zap.Logger, *config.Config, *scenario.Deck, string, error) {
	log, err := a.logger()
	if err != nil {
		return nil, nil, nil, "", err
	}
	cfg, err := a.config()
	if err != nil {
		return nil, nil, nil, "", err
	}
	deck, path, err := a.deck(log)
	if err != nil {
		return nil, nil, nil, "", err
	}
	return log, cfg, deck, path, nil
}
