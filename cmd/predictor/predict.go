package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edgard/studentpredictor/internal/predictor"
	"github.com/edgard/studentpredictor/internal/service"
	"github.com/edgard/studentpredictor/internal/survey"
	"github.com/edgard/studentpredictor/internal/terminal"
)

func newPredictCmd(c *cli) *cobra.Command {
	values := make(map[string]*string, len(survey.Fields))

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a prediction for one student from the terminal",
		Long: `Validates the survey given as flags, sends it to the prediction API and
renders the result.

Example:
  predictor predict --genero F --apoyo-familiar 4 --ingresos-familiares 3 \
    --horas-estudio 20 --actividades-extra 5 --nivel-educativo-padres 4 \
    --acceso-internet 1 --clima-familiar 4 --asistencia 95 --motivacion 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := survey.NewForm()
			for name, v := range values {
				form[name] = strings.TrimSpace(*v)
			}
			return c.predict(cmd, form)
		},
	}

	for _, f := range survey.Fields {
		values[f.Name] = cmd.Flags().String(flagName(f.Name), "", flagUsage(f))
	}
	return cmd
}

func (c *cli) predict(cmd *cobra.Command, form survey.Form) error {
	log := c.commandLogger(cmd)

	store, closeStore, err := c.openStore(log)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := service.NewPredictionService(service.Deps{
		Logger:   log,
		Client:   predictor.NewClient(c.cfg.API, log),
		Store:    store,
		Messages: c.cfg.Messages,
		BaseURL:  c.cfg.API.BaseURL,
	})

	styles := terminal.NewStyles()
	out := svc.Submit(cmd.Context(), form)
	if out.Failed() {
		fmt.Fprintln(cmd.OutOrStdout(), styles.Failure(out.Message))
		return errReported
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.Prediction(out.Prediction))
	return nil
}

// flagName turns a field name into its flag, e.g. apoyo_familiar into
// apoyo-familiar.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

func flagUsage(f survey.Field) string {
	if f.Kind == survey.KindChoice {
		opts := make([]string, 0, len(f.Choices))
		for _, ch := range f.Choices {
			opts = append(opts, fmt.Sprintf("%s=%s", ch.Value, ch.Label))
		}
		return fmt.Sprintf("%s (%s)", f.Label, strings.Join(opts, ", "))
	}
	lo, hi := f.Bounds()
	return fmt.Sprintf("%s (%s-%s)", f.Label, lo, hi)
}
