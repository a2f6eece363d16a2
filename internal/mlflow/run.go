package mlflow

import (
	"context"
	"net/http"
	"net/url"

	"github.com/databricks/databricks-sdk-go/service/ml"

	"github.com/imishinist/mlflow-track/internal/models"
	timeutils "github.com/imishinist/mlflow-track/internal/time"
)

type runResponse struct {
	Run *ml.Run `json:"run"`
}

func (t *Tracking) createRun(ctx context.Context, experimentID string) (string, int, error) {
	var resp runResponse
	// user_id is deprecated by the server in favour of a tag but still honoured.
	status, err := t.post(ctx, "runs/create", ml.CreateRun{
		ExperimentId: experimentID,
		StartTime:    t.clock.NowMillis(),
		UserId:       t.userID(),
	}, &resp)
	if err != nil || status != http.StatusOK {
		return "", status, err
	}
	return runIDOf(resp.Run), status, nil
}

// runIDOf prefers run_id and falls back to the older run_uuid field.
func runIDOf(run *ml.Run) string {
	if run == nil || run.Info == nil {
		return ""
	}
	if run.Info.RunId != "" {
		return run.Info.RunId
	}
	return run.Info.RunUuid
}

// CreateRun starts another run under the bound experiment and returns its id
// with the raw status. The client stays bound to the run it was built with.
func (c *Client) CreateRun(ctx context.Context) (string, int, error) {
	return c.createRun(ctx, c.experimentID)
}

// GetRun re-fetches the bound run.
func (c *Client) GetRun(ctx context.Context) (*ml.Run, error) {
	return c.GetRunByID(ctx, c.runID)
}

// GetRunByID fetches any run by id.
func (t *Tracking) GetRunByID(ctx context.Context, runID string) (*ml.Run, error) {
	var resp runResponse
	if err := t.get(ctx, "runs/get", url.Values{"run_id": {runID}}, &resp); err != nil {
		return nil, err
	}
	return resp.Run, nil
}

// RunInfo flattens a run for display. For metrics only the latest value per
// key is kept.
func RunInfo(run *ml.Run) *models.RunInfo {
	info := &models.RunInfo{}
	if run == nil {
		return info
	}

	if run.Info != nil {
		info.RunID = runIDOf(run)
		info.ExperimentID = run.Info.ExperimentId
		info.RunName = run.Info.RunName
		info.UserID = run.Info.UserId
		info.Status = string(run.Info.Status)
		info.StartTime = timeutils.FromMillis(run.Info.StartTime)
		info.EndTime = timeutils.FromMillisPtr(run.Info.EndTime)
		info.ArtifactURI = run.Info.ArtifactUri
	}

	if run.Data != nil {
		if len(run.Data.Params) > 0 {
			info.Params = make(map[string]string, len(run.Data.Params))
			for _, p := range run.Data.Params {
				info.Params[p.Key] = p.Value
			}
		}
		if len(run.Data.Metrics) > 0 {
			info.Metrics = make(map[string]float64, len(run.Data.Metrics))
			latest := make(map[string]int64, len(run.Data.Metrics))
			for _, m := range run.Data.Metrics {
				if ts, seen := latest[m.Key]; seen && ts > m.Timestamp {
					continue
				}
				latest[m.Key] = m.Timestamp
				info.Metrics[m.Key] = m.Value
			}
		}
		if len(run.Data.Tags) > 0 {
			info.Tags = make(map[string]string, len(run.Data.Tags))
			for _, tag := range run.Data.Tags {
				info.Tags[tag.Key] = tag.Value
			}
		}
	}

	if name, ok := info.Tags["mlflow.runName"]; ok && info.RunName == "" {
		info.RunName = name
	}
	return info
}
