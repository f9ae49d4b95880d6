package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/edgard/studentpredictor/internal/config"
	"github.com/edgard/studentpredictor/internal/database"
	"github.com/edgard/studentpredictor/internal/logger"
)

// errReported marks failures that were already rendered for the user.
var errReported = errors.New("failure already reported")

// cli carries the state shared by all subcommands.
type cli struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "predictor",
		Short: "Student academic performance predictor",
		Long: `Collects the student survey, validates it and asks the remote prediction
API for the expected academic performance (Alto, Medio or Bajo).

Run "predictor serve" for the web form, or "predictor predict" to get a
prediction from the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			c.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "./config.yaml", "Path to configuration file")

	root.AddCommand(
		newServeCmd(c),
		newPredictCmd(c),
		newHealthCmd(c),
	)
	return root
}

// commandLogger logs to the command's stderr so that rendered output on
// stdout stays clean.
func (c *cli) commandLogger(cmd *cobra.Command) *slog.Logger {
	return logger.New(cmd.ErrOrStderr(), c.cfg.Log.Level, c.cfg.Log.JSON)
}

// openStore returns the history store when history is enabled, and a
// close function that is always safe to call.
func (c *cli) openStore(log *slog.Logger) (database.Store, func(), error) {
	if !c.cfg.History.Enabled {
		return nil, func() {}, nil
	}

	db, err := database.NewDB(c.cfg.History.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database %s: %w", c.cfg.History.DBPath, err)
	}
	return database.NewStore(db, log), func() { database.CloseDB(db) }, nil
}
