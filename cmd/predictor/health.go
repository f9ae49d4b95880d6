package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edgard/studentpredictor/internal/predictor"
	"github.com/edgard/studentpredictor/internal/terminal"
)

func newHealthCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the prediction API health and model information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := c.commandLogger(cmd)
			client := predictor.NewClient(c.cfg.API, log)
			styles := terminal.NewStyles()

			health, err := client.Health(cmd.Context())
			if err != nil {
				msg := predictor.UserMessage(err, c.cfg.Messages.ServiceDown, c.cfg.Messages.Connection(c.cfg.API.BaseURL))
				fmt.Fprintln(cmd.OutOrStdout(), styles.Failure(msg))
				return errReported
			}

			info, err := client.ModelInfo(cmd.Context())
			if err != nil {
				log.Warn("Model info unavailable", "error", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), styles.Health(health, info))
			if !health.Healthy() {
				return errReported
			}
			return nil
		},
	}
}
