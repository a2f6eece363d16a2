package mlflow

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/databricks/databricks-sdk-go/service/ml"

	"github.com/imishinist/mlflow-track/internal/models"
	timeutils "github.com/imishinist/mlflow-track/internal/time"
)

type createExperimentResponse struct {
	ExperimentID string `json:"experiment_id"`
}

type experimentResponse struct {
	Experiment *ml.Experiment `json:"experiment"`
}

type experimentsResponse struct {
	Experiments []ml.Experiment `json:"experiments"`
}

// CreateExperiment creates an experiment and returns its id with the raw HTTP
// status. The id is empty unless the status is 200. Tag values are coerced to
// strings.
func (t *Tracking) CreateExperiment(ctx context.Context, name, artifactLocation string, tags map[string]any) (string, int, error) {
	var experimentTags []ml.ExperimentTag
	for _, kv := range models.Normalize(models.Mapping(tags)) {
		experimentTags = append(experimentTags, ml.ExperimentTag{Key: kv.Key, Value: kv.Value})
	}

	var resp createExperimentResponse
	status, err := t.post(ctx, "experiments/create", ml.CreateExperiment{
		Name:             name,
		ArtifactLocation: artifactLocation,
		Tags:             experimentTags,
	}, &resp)
	if err != nil {
		return "", status, err
	}
	if status != http.StatusOK {
		return "", status, nil
	}

	t.logger.Info("Created experiment", "name", name, "experiment_id", resp.ExperimentID)
	return resp.ExperimentID, status, nil
}

// ListExperiments returns every experiment known to the server.
func (t *Tracking) ListExperiments(ctx context.Context) ([]ml.Experiment, error) {
	var resp experimentsResponse
	if err := t.get(ctx, "experiments/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Experiments, nil
}

// GetExperimentByID fetches one experiment.
func (t *Tracking) GetExperimentByID(ctx context.Context, experimentID string) (*ml.Experiment, error) {
	return t.getExperiment(ctx, "experiments/get", url.Values{"experiment_id": {experimentID}})
}

// GetExperimentByName fetches one experiment by its exact name.
func (t *Tracking) GetExperimentByName(ctx context.Context, name string) (*ml.Experiment, error) {
	return t.getExperiment(ctx, "experiments/get-by-name", url.Values{"experiment_name": {name}})
}

func (t *Tracking) getExperiment(ctx context.Context, path string, query url.Values) (*ml.Experiment, error) {
	var resp experimentResponse
	if err := t.get(ctx, path, query, &resp); err != nil {
		return nil, err
	}
	if resp.Experiment == nil {
		return nil, fmt.Errorf("%s: response has no experiment", path)
	}
	return resp.Experiment, nil
}

// ExperimentInfo flattens an experiment for display.
func ExperimentInfo(exp *ml.Experiment) *models.ExperimentInfo {
	info := &models.ExperimentInfo{
		ExperimentID:     exp.ExperimentId,
		Name:             exp.Name,
		ArtifactLocation: exp.ArtifactLocation,
		LifecycleStage:   exp.LifecycleStage,
		CreationTime:     timeutils.FromMillisPtr(exp.CreationTime),
	}
	if len(exp.Tags) > 0 {
		info.Tags = make(map[string]string, len(exp.Tags))
		for _, tag := range exp.Tags {
			info.Tags[tag.Key] = tag.Value
		}
	}
	return info
}
