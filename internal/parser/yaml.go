package parser

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/imishinist/mlflow-track/internal/models"
)

func ParseYAMLBatch(reader io.Reader) (*models.BatchFile, error) {
	var data rawBatch
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to parse YAML batch: %w", err)
	}

	return data.toBatch()
}
