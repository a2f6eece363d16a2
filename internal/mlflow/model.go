package mlflow

import (
	"context"

	"github.com/databricks/databricks-sdk-go/service/ml"
)

// LogModel records already-serialized MLmodel metadata on the bound run.
func (c *Client) LogModel(ctx context.Context, modelJSON string) (int, error) {
	return c.post(ctx, "runs/log-model", ml.LogModel{
		RunId:     c.runID,
		ModelJson: modelJSON,
	}, nil)
}
