package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/databricks/databricks-sdk-go/service/ml"
	"github.com/spf13/cobra"

	"github.com/imishinist/mlflow-track/internal/config"
	"github.com/imishinist/mlflow-track/internal/mlflow"
	"github.com/imishinist/mlflow-track/internal/models"
)

var experimentsCmd = &cobra.Command{
	Use:     "experiments",
	Aliases: []string{"experiment", "exp"},
	Short:   "Inspect and create experiments",
}

var experimentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all experiments",
	RunE:  experimentsList,
}

var experimentsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get one experiment by id or name",
	Example: heredoc.Doc(`
		$ mlflow-track experiments get --id 1
		$ mlflow-track experiments get --name demo --format yaml
	`),
	RunE: experimentsGet,
}

var experimentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an experiment",
	Example: heredoc.Doc(`
		$ mlflow-track experiments create --name demo --tag team=vision
	`),
	RunE: experimentsCreate,
}

func init() {
	rootCmd.AddCommand(experimentsCmd)
	experimentsCmd.AddCommand(experimentsListCmd)
	experimentsCmd.AddCommand(experimentsGetCmd)
	experimentsCmd.AddCommand(experimentsCreateCmd)

	experimentsCmd.PersistentFlags().String("format", "json", "Output format (json/yaml)")

	experimentsGetCmd.Flags().String("id", "", "Experiment ID")
	experimentsGetCmd.Flags().String("name", "", "Experiment name")
	experimentsGetCmd.MarkFlagsMutuallyExclusive("id", "name")
	experimentsGetCmd.MarkFlagsOneRequired("id", "name")

	experimentsCreateCmd.Flags().String("name", "", "Experiment name (required)")
	experimentsCreateCmd.Flags().String("artifact-location", "", "Artifact location (optional)")
	experimentsCreateCmd.Flags().StringArray("tag", []string{}, "Tags in key=value format")
	experimentsCreateCmd.MarkFlagRequired("name")
}

func newTracking() (*mlflow.Tracking, error) {
	cfg := config.New()
	tracking, err := mlflow.NewTracking(cfg, mlflow.WithLogger(newLogger(cfg)))
	if err != nil {
		return nil, fmt.Errorf("failed to create MLflow client: %w", err)
	}
	return tracking, nil
}

func experimentsList(cmd *cobra.Command, args []string) error {
	tracking, err := newTracking()
	if err != nil {
		return err
	}

	exps, err := tracking.ListExperiments(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list experiments: %w", err)
	}

	infos := make([]*models.ExperimentInfo, 0, len(exps))
	for i := range exps {
		infos = append(infos, mlflow.ExperimentInfo(&exps[i]))
	}
	return printOutput(cmd, infos)
}

func experimentsGet(cmd *cobra.Command, args []string) error {
	tracking, err := newTracking()
	if err != nil {
		return err
	}

	id, _ := cmd.Flags().GetString("id")
	name, _ := cmd.Flags().GetString("name")

	ctx := context.Background()
	var exp *ml.Experiment
	if id != "" {
		exp, err = tracking.GetExperimentByID(ctx, id)
	} else {
		exp, err = tracking.GetExperimentByName(ctx, name)
	}
	if mlflow.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("experiment not found")
	}
	if err != nil {
		return fmt.Errorf("failed to get experiment: %w", err)
	}

	return printOutput(cmd, mlflow.ExperimentInfo(exp))
}

func experimentsCreate(cmd *cobra.Command, args []string) error {
	tracking, err := newTracking()
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	artifactLocation, _ := cmd.Flags().GetString("artifact-location")
	tags, _ := cmd.Flags().GetStringArray("tag")

	tagPairs, err := parseKeyValues("tag", tags)
	if err != nil {
		return err
	}
	tagMap := make(map[string]any, len(tagPairs))
	for _, kv := range models.Normalize(tagPairs) {
		tagMap[kv.Key] = kv.Value
	}

	id, status, err := tracking.CreateExperiment(context.Background(), name, artifactLocation, tagMap)
	if err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("experiment creation failed: status %d", status)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", id)
	return nil
}
