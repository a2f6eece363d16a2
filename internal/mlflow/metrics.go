package mlflow

import (
	"context"

	"github.com/imishinist/mlflow-track/internal/models"
)

type logMetricRequest struct {
	RunID string `json:"run_id"`
	models.Metric
}

type logBatchRequest struct {
	RunID   string            `json:"run_id"`
	Metrics []models.Metric   `json:"metrics"`
	Params  []models.KeyValue `json:"params"`
	Tags    []models.KeyValue `json:"tags"`
}

// LogMetric logs one metric point stamped with the current time. A nil step
// logs at step 0. An empty input returns StatusNoOp without contacting the
// server.
func (c *Client) LogMetric(ctx context.Context, metric models.Entries, step *int64) (int, error) {
	kv, ok := c.single("log-metric", metric)
	if !ok {
		return StatusNoOp, nil
	}

	var s int64
	if step != nil {
		s = *step
	}

	c.logger.Debug("Logging metric", "key", kv.Key, "value", kv.Value, "step", s)
	return c.post(ctx, "runs/log-metric", logMetricRequest{
		RunID: c.runID,
		Metric: models.Metric{
			Key:       kv.Key,
			Value:     kv.Value,
			Timestamp: c.clock.NowMillis(),
			Step:      s,
		},
	}, nil)
}

// LogBatch sends metrics, params and tags in a single request. Each input may
// be nil, Pairs or a Mapping and is normalized independently; empty sections
// are sent as empty lists. Batch metrics share the call time and step 0.
func (c *Client) LogBatch(ctx context.Context, metrics, params, tags models.Entries) (int, error) {
	req := logBatchRequest{
		RunID:   c.runID,
		Metrics: models.MetricsFromEntries(metrics, c.clock.NowMillis(), 0),
		Params:  models.Normalize(params),
		Tags:    models.Normalize(tags),
	}

	c.logger.Debug("Logging batch", "metrics", len(req.Metrics), "params", len(req.Params), "tags", len(req.Tags))
	return c.post(ctx, "runs/log-batch", req, nil)
}
