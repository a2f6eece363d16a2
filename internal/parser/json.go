package parser

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/imishinist/mlflow-track/internal/models"
)

// rawBatch holds the undecoded sections of a batch file. Each section may be
// absent, a list of {key, value} objects, or a mapping.
type rawBatch struct {
	Metrics any `json:"metrics" yaml:"metrics"`
	Params  any `json:"params" yaml:"params"`
	Tags    any `json:"tags" yaml:"tags"`
}

func ParseJSONBatch(reader io.Reader) (*models.BatchFile, error) {
	var data rawBatch
	decoder := json.NewDecoder(reader)
	decoder.UseNumber()

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON batch: %w", err)
	}

	return data.toBatch()
}

func (r rawBatch) toBatch() (*models.BatchFile, error) {
	metrics, err := models.FromValue(r.Metrics)
	if err != nil {
		return nil, fmt.Errorf("invalid metrics: %w", err)
	}
	params, err := models.FromValue(r.Params)
	if err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}
	tags, err := models.FromValue(r.Tags)
	if err != nil {
		return nil, fmt.Errorf("invalid tags: %w", err)
	}
	return &models.BatchFile{Metrics: metrics, Params: params, Tags: tags}, nil
}
