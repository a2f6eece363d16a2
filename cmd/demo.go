package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/imishinist/mlflow-track/internal/config"
	"github.com/imishinist/mlflow-track/internal/mlflow"
	"github.com/imishinist/mlflow-track/internal/models"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the reference logging workflow",
	Long: heredoc.Doc(`
		Create or reuse the configured experiment, start a run, and log a
		parameter, a tag, a metric and a batch of metrics and params to it.
	`),
	Example: heredoc.Doc(`
		$ mlflow-track demo --hostname 127.0.0.1 --port 5000 --experiment-name demo
		$ mlflow-track demo --config ./mlflow-track.yaml
	`),
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg := config.New()
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "MLflow REST API demo.")

	ctx := context.Background()
	client, err := mlflow.NewClient(ctx, cfg, mlflow.WithLogger(newLogger(cfg)))
	if err != nil {
		return fmt.Errorf("failed to create MLflow client: %w", err)
	}
	fmt.Fprintf(out, "Experiment ID: %s\n", client.ExperimentID())
	fmt.Fprintf(out, "Run ID: %s\n", client.RunID())

	r := &reporter{out: out}

	status, err := client.LogParam(ctx, models.Pair{Key: "alpha", Value: 0.198})
	r.check("log parameter", status, err)

	status, err = client.SetTag(ctx, models.Mapping{"tag1": 1})
	r.check("set tag", status, err)

	status, err = client.LogMetric(ctx, models.Mapping{"precision": 0.769}, nil)
	r.check("log metric", status, err)

	status, err = client.LogBatch(ctx,
		models.Mapping{"mse": 2500.00, "rmse": 50.00},
		models.Mapping{"learning_rate": 0.01, "n_estimators": 10},
		nil,
	)
	r.check("log batch", status, err)

	return r.err()
}
