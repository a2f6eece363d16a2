package models

import "time"

// RunInfo is a flattened view of a run for display.
type RunInfo struct {
	RunID        string             `json:"run_id" yaml:"run_id"`
	ExperimentID string             `json:"experiment_id" yaml:"experiment_id"`
	RunName      string             `json:"run_name,omitempty" yaml:"run_name,omitempty"`
	UserID       string             `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Status       string             `json:"status" yaml:"status"`
	StartTime    time.Time          `json:"start_time" yaml:"start_time"`
	EndTime      *time.Time         `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	ArtifactURI  string             `json:"artifact_uri,omitempty" yaml:"artifact_uri,omitempty"`
	Params       map[string]string  `json:"params,omitempty" yaml:"params,omitempty"`
	Metrics      map[string]float64 `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Tags         map[string]string  `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ExperimentInfo is a flattened view of an experiment for display.
type ExperimentInfo struct {
	ExperimentID     string            `json:"experiment_id" yaml:"experiment_id"`
	Name             string            `json:"name" yaml:"name"`
	ArtifactLocation string            `json:"artifact_location,omitempty" yaml:"artifact_location,omitempty"`
	LifecycleStage   string            `json:"lifecycle_stage,omitempty" yaml:"lifecycle_stage,omitempty"`
	CreationTime     *time.Time        `json:"creation_time,omitempty" yaml:"creation_time,omitempty"`
	Tags             map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}
