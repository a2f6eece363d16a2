package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/imishinist/mlflow-track/internal/mlflow"
)

var runsCmd = &cobra.Command{
	Use:     "runs",
	Aliases: []string{"run"},
	Short:   "Inspect runs",
}

var runsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Get a run with its params, latest metrics and tags",
	RunE:  runsGet,
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsGetCmd)

	runsCmd.PersistentFlags().String("format", "json", "Output format (json/yaml)")

	runsGetCmd.Flags().String("run-id", "", "Run ID (required)")
	runsGetCmd.MarkFlagRequired("run-id")
}

func runsGet(cmd *cobra.Command, args []string) error {
	tracking, err := newTracking()
	if err != nil {
		return err
	}

	runID, _ := cmd.Flags().GetString("run-id")

	run, err := tracking.GetRunByID(context.Background(), runID)
	if mlflow.IsStatus(err, http.StatusNotFound) {
		return fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	return printOutput(cmd, mlflow.RunInfo(run))
}
