package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/imishinist/mlflow-track/internal/mlflow"
	"github.com/imishinist/mlflow-track/internal/models"
)

// printOutput renders v according to the --format flag.
func printOutput(cmd *cobra.Command, v any) error {
	format, _ := cmd.Flags().GetString("format")

	var output []byte
	var err error

	switch format {
	case "yaml":
		output, err = yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal to YAML: %w", err)
		}
	case "json", "":
		output, err = json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal to JSON: %w", err)
		}
	default:
		return fmt.Errorf("invalid format: %s (valid: json, yaml)", format)
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(output), "\n"))
	return nil
}

// parseKeyValues parses key=value flag values, keeping their order.
func parseKeyValues(kind string, values []string) (models.Pairs, error) {
	pairs := make(models.Pairs, 0, len(values))
	for _, v := range values {
		parts := strings.SplitN(v, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid %s format: %s (expected key=value)", kind, v)
		}
		pairs = append(pairs, models.Pair{Key: parts[0], Value: parts[1]})
	}
	return pairs, nil
}

// reporter prints one line per logging call and counts failures.
type reporter struct {
	out    io.Writer
	calls  int
	failed int
}

func (r *reporter) check(what string, status int, err error) {
	r.calls++
	switch {
	case err != nil:
		r.failed++
		fmt.Fprintf(r.out, "Failed to %s: %v\n", what, err)
	case status == mlflow.StatusNoOp:
		fmt.Fprintf(r.out, "Nothing to %s.\n", what)
	case status == http.StatusOK:
		fmt.Fprintf(r.out, "Successfully %s.\n", pastTense(what))
	default:
		r.failed++
		fmt.Fprintf(r.out, "Failed to %s: status %d\n", what, status)
	}
}

func (r *reporter) err() error {
	if r.failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d calls failed", r.failed, r.calls)
}

// pastTense turns "log parameter alpha" into "logged parameter alpha".
func pastTense(what string) string {
	verb, rest, _ := strings.Cut(what, " ")
	switch verb {
	case "log":
		verb = "logged"
	case "set":
		verb = "set"
	}
	if rest == "" {
		return verb
	}
	return verb + " " + rest
}
