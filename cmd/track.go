package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/imishinist/mlflow-track/internal/config"
	"github.com/imishinist/mlflow-track/internal/mlflow"
	"github.com/imishinist/mlflow-track/internal/models"
	"github.com/imishinist/mlflow-track/internal/parser"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Start a run and log to it",
	Long: heredoc.Doc(`
		Create or reuse the configured experiment, start a new run and log the
		given parameters, tags, metrics, batch file and model to it. Each --param,
		--tag and --metric is sent as its own request; --from-file is sent as a
		single log-batch request.
	`),
	Example: heredoc.Doc(`
		# Start a run and print its id
		$ mlflow-track track --experiment-name demo

		# Log single values
		$ mlflow-track track --param lr=0.01 --tag team=vision --metric loss=0.25 --step 3

		# Log a batch file; each section may be a list of {key, value} or a mapping
		$ mlflow-track track --from-file batch.yaml

		# Record model metadata
		$ mlflow-track track --model-file MLmodel.json
	`),
	RunE: runTrack,
}

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().StringArray("param", []string{}, "Parameters in key=value format")
	trackCmd.Flags().StringArray("tag", []string{}, "Tags in key=value format")
	trackCmd.Flags().StringArray("metric", []string{}, "Metrics in key=value format")
	trackCmd.Flags().Int64("step", -1, "Step for --metric values (default 0)")
	trackCmd.Flags().String("from-file", "", "Log metrics, params and tags from a batch file (JSON/YAML)")
	trackCmd.Flags().String("model-file", "", "Log model metadata from a JSON file")
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg := config.New()

	// Parse flags
	params, _ := cmd.Flags().GetStringArray("param")
	tags, _ := cmd.Flags().GetStringArray("tag")
	metrics, _ := cmd.Flags().GetStringArray("metric")
	step, _ := cmd.Flags().GetInt64("step")
	fromFile, _ := cmd.Flags().GetString("from-file")
	modelFile, _ := cmd.Flags().GetString("model-file")

	paramPairs, err := parseKeyValues("parameter", params)
	if err != nil {
		return err
	}
	tagPairs, err := parseKeyValues("tag", tags)
	if err != nil {
		return err
	}
	metricPairs, err := parseKeyValues("metric", metrics)
	if err != nil {
		return err
	}

	var stepPtr *int64
	if step >= 0 {
		stepPtr = &step
	}

	// Read inputs before creating the run so bad files do not leave empty runs.
	var modelJSON string
	if modelFile != "" {
		data, err := os.ReadFile(modelFile)
		if err != nil {
			return fmt.Errorf("failed to read model file %s: %w", modelFile, err)
		}
		if !json.Valid(data) {
			return fmt.Errorf("model file %s is not valid JSON", modelFile)
		}
		modelJSON = string(data)
	}

	var batch *models.BatchFile
	if fromFile != "" {
		batch, err = parser.ParseBatchFile(fromFile)
		if err != nil {
			return fmt.Errorf("failed to parse batch file: %w", err)
		}
	}

	ctx := context.Background()
	client, err := mlflow.NewClient(ctx, cfg, mlflow.WithLogger(newLogger(cfg)))
	if err != nil {
		return fmt.Errorf("failed to create MLflow client: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run ID: %s\n", client.RunID())

	r := &reporter{out: out}
	for _, p := range paramPairs {
		status, err := client.LogParam(ctx, p)
		r.check(fmt.Sprintf("log parameter %v", p.Key), status, err)
	}
	for _, t := range tagPairs {
		status, err := client.SetTag(ctx, t)
		r.check(fmt.Sprintf("set tag %v", t.Key), status, err)
	}
	for _, m := range metricPairs {
		status, err := client.LogMetric(ctx, m, stepPtr)
		r.check(fmt.Sprintf("log metric %v", m.Key), status, err)
	}
	if batch != nil {
		status, err := client.LogBatch(ctx, batch.Metrics, batch.Params, batch.Tags)
		r.check("log batch from "+fromFile, status, err)
	}
	if modelFile != "" {
		status, err := client.LogModel(ctx, modelJSON)
		r.check("log model from "+modelFile, status, err)
	}

	return r.err()
}
