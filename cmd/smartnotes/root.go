package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mklimuk/smart-notes/pkg/config"
)

// globals is shared by every subcommand once the root pre-run has loaded
// the configuration.
type globals struct {
	configPath string
	verbose    bool
	fs         afero.Fs
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	g := &globals{fs: afero.NewOsFs()}

	root := &cobra.Command{
		Use:           "smartnotes",
		Short:         "Note taking with an AI assistant",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "smartnotes.yaml", "Path to the YAML configuration file")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().String("locale", "", "Override the assistant language (ar, en)")
	root.PersistentFlags().String("provider", "", "Override the AI provider (gemini, openai, moonshot, anthropic)")

	root.AddCommand(
		newServeCommand(g),
		newNotesCommand(g),
		newAddCommand(g),
		newSuggestCommand(g),
		newMeetingCommand(g),
		newListenCommand(g),
		newExportCommand(g),
		newTokenCommand(g),
	)
	return root
}

func (g *globals) load(cmd *cobra.Command) error {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	g.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.ReadConfig(g.fs, g.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("locale"); v != "" {
		cfg.Locale = v
	}
	if v, _ := cmd.Flags().GetString("provider"); v != "" {
		cfg.AI.Provider = v
	}
	cfg.ApplyEnv(os.Getenv)
	g.cfg = cfg
	g.logger.Debug("configuration loaded", "path", g.configPath, "storage", cfg.Storage.Backend, "provider", cfg.AI.Provider, "locale", cfg.Locale)
	return nil
}
