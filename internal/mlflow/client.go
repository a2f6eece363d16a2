package mlflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"

	"github.com/imishinist/mlflow-track/internal/config"
	timeutils "github.com/imishinist/mlflow-track/internal/time"
)

// Tracking talks to the tracking server without being bound to an experiment
// or a run. It serves the experiment lookups and is embedded by Client.
type Tracking struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
	clock      timeutils.Clock
	lookupUser UserLookup
}

type Option func(*Tracking)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *Tracking) {
		t.httpClient = hc
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(t *Tracking) {
		t.logger = logger
	}
}

func WithClock(clock timeutils.Clock) Option {
	return func(t *Tracking) {
		t.clock = clock
	}
}

// WithUserLookup overrides how the run's user_id is resolved.
func WithUserLookup(lookup UserLookup) Option {
	return func(t *Tracking) {
		t.lookupUser = lookup
	}
}

func NewTracking(cfg *config.Config, opts ...Option) (*Tracking, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	t := &Tracking{
		baseURL:    cfg.BaseURL(),
		httpClient: http.DefaultClient,
		logger:     log.NewWithOptions(os.Stderr, log.Options{Prefix: "mlflow"}),
		clock:      timeutils.SystemClock,
		lookupUser: CurrentUser,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.httpClient == nil {
		t.httpClient = http.DefaultClient
	}
	if t.logger == nil {
		t.logger = log.New(io.Discard)
	}
	return t, nil
}

// BaseURL returns the REST root, e.g. http://127.0.0.1:5000/api/2.0/mlflow.
func (t *Tracking) BaseURL() string {
	return t.baseURL
}

// Client is bound to exactly one experiment and one run for its lifetime.
// Every logging call targets that run.
type Client struct {
	*Tracking
	experimentID string
	runID        string
}

// NewClient resolves the configured experiment by name, creating it when the
// server does not know it, and starts a run under it. It fails if either the
// experiment or the run cannot be established.
func NewClient(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if err := cfg.RequireExperiment(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	t, err := NewTracking(cfg, opts...)
	if err != nil {
		return nil, err
	}

	experimentID, err := t.resolveExperiment(ctx, cfg.ExperimentName)
	if err != nil {
		return nil, err
	}

	runID, status, err := t.createRun(ctx, experimentID)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	if status != http.StatusOK || runID == "" {
		return nil, fmt.Errorf("failed to create run in experiment %s: status %d", experimentID, status)
	}
	t.logger.Info("Created run", "run_id", runID, "experiment_id", experimentID)

	return &Client{
		Tracking:     t,
		experimentID: experimentID,
		runID:        runID,
	}, nil
}

func (c *Client) ExperimentID() string {
	return c.experimentID
}

func (c *Client) RunID() string {
	return c.runID
}

// resolveExperiment is the find-or-create step: a 200 from get-by-name binds
// the existing id, any other status triggers exactly one create.
func (t *Tracking) resolveExperiment(ctx context.Context, name string) (string, error) {
	exp, err := t.GetExperimentByName(ctx, name)
	if err == nil {
		t.logger.Info("Experiment already exists", "name", name, "experiment_id", exp.ExperimentId)
		return exp.ExperimentId, nil
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return "", fmt.Errorf("failed to look up experiment %q: %w", name, err)
	}

	t.logger.Info("Creating experiment", "name", name, "lookup_status", statusErr.StatusCode)
	experimentID, status, err := t.CreateExperiment(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment %q: %w", name, err)
	}
	if status != http.StatusOK || experimentID == "" {
		return "", fmt.Errorf("failed to create experiment %q: status %d", name, status)
	}
	return experimentID, nil
}
