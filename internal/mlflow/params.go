package mlflow

import (
	"context"

	"github.com/databricks/databricks-sdk-go/service/ml"

	"github.com/imishinist/mlflow-track/internal/models"
)

// single extracts the one record a single-entry call logs. Extra entries in a
// Mapping are dropped with a warning.
func (c *Client) single(op string, e models.Entries) (models.KeyValue, bool) {
	kvs := models.Normalize(e)
	if len(kvs) == 0 {
		return models.KeyValue{}, false
	}
	if len(kvs) > 1 {
		c.logger.Warn("Only the first entry is logged", "op", op, "key", kvs[0].Key, "dropped", len(kvs)-1)
	}
	return kvs[0], true
}

// LogParam logs one parameter given as a Pair or a one-entry Mapping. An empty
// input returns StatusNoOp without contacting the server.
func (c *Client) LogParam(ctx context.Context, param models.Entries) (int, error) {
	kv, ok := c.single("log-parameter", param)
	if !ok {
		return StatusNoOp, nil
	}

	c.logger.Debug("Logging parameter", "key", kv.Key, "value", kv.Value)
	return c.post(ctx, "runs/log-parameter", ml.LogParam{
		RunId: c.runID,
		Key:   kv.Key,
		Value: kv.Value,
	}, nil)
}

// SetTag sets one tag given as a Pair or a one-entry Mapping. An empty input
// returns StatusNoOp without contacting the server.
func (c *Client) SetTag(ctx context.Context, tag models.Entries) (int, error) {
	kv, ok := c.single("set-tag", tag)
	if !ok {
		return StatusNoOp, nil
	}

	c.logger.Debug("Setting tag", "key", kv.Key, "value", kv.Value)
	return c.post(ctx, "runs/set-tag", ml.SetTag{
		RunId: c.runID,
		Key:   kv.Key,
		Value: kv.Value,
	}, nil)
}
