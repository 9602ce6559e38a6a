// Package cli implements the voicelingo command line.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/example/voicelingo/internal/companion"
	"github.com/example/voicelingo/internal/config"
	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/internal/logger"
	"github.com/example/voicelingo/internal/translate"
	"github.com/spf13/cobra"
)

// app holds what every command needs once the configuration is loaded
type app struct {
	configFile string
	profile    string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "voicelingo",
		Short: "VoiceLingo - translate, practice and track your progress",
		Long: `VoiceLingo translates phrases, schedules them for spaced repetition
practice and tracks streaks, achievements and learning level.

Run "voicelingo bot" to serve the Telegram bot. The other commands operate
on a single profile; bot chats are profiles named after their chat id.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&a.profile, "profile", "", "Profile to operate on (default: PROFILE or \"default\")")

	root.AddCommand(newBotCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newStatsCmd(a))
	root.AddCommand(newDueCmd(a))
	root.AddCommand(newTranslateCmd(a))
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) load() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.profile != "" {
		cfg.Profile = a.profile
	}
	a.cfg = cfg
	a.logger = logger.Setup(cfg.LogLevel, cfg.LogFormat)
	return nil
}

func (a *app) openStore() (database.Backend, error) {
	store, err := database.Open(database.Options{
		Type: a.cfg.DBType,
		Path: a.cfg.DBPath,
		URL:  a.cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// openProfile loads the engines of the configured profile
func (a *app) openProfile(store database.Store, opts ...companion.Option) *companion.Companion {
	opts = append([]companion.Option{
		companion.WithLogger(a.logger.With("profile", a.cfg.Profile)),
	}, opts...)
	return companion.Open(database.WithPrefix(store, database.ProfilePrefix(a.cfg.Profile)), opts...)
}

func (a *app) translator() *translate.Client {
	return translate.New(a.cfg.TranslateAPIURL, a.cfg.TranslateTimeout)
}
