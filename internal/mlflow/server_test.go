package mlflow

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/mlflow-track/internal/config"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

type fakeExperiment struct {
	ID   string `json:"experiment_id"`
	Name string `json:"name"`
}

// fakeServer is an in-memory tracking server covering the endpoints the
// client uses. Paths listed in fail answer with the given status instead.
type fakeServer struct {
	*httptest.Server

	mu          sync.Mutex
	requests    []recordedRequest
	experiments []fakeExperiment
	runs        map[string]map[string]any
	fail        map[string]int
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{
		runs: make(map[string]map[string]any),
		fail: make(map[string]int),
	}
	fs.Server = httptest.NewServer(http.HandlerFunc(fs.handle))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) addExperiment(name string) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	id := strconv.Itoa(len(fs.experiments) + 100)
	fs.experiments = append(fs.experiments, fakeExperiment{ID: id, Name: name})
	return id
}

func (fs *fakeServer) failPath(path string, status int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.fail[path] = status
}

func (fs *fakeServer) calls(path string) []recordedRequest {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var out []recordedRequest
	for _, r := range fs.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (fs *fakeServer) requestCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.requests)
}

func (fs *fakeServer) config(t *testing.T, experimentName string) *config.Config {
	t.Helper()
	u, err := url.Parse(fs.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return &config.Config{Hostname: host, Port: port, ExperimentName: experimentName}
}

func (fs *fakeServer) handle(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, config.APIPath+"/")
	rec := recordedRequest{Method: r.Method, Path: path, Query: r.URL.Query()}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		if err := json.Unmarshal(raw, &rec.Body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.requests = append(fs.requests, rec)

	if status, ok := fs.fail[path]; ok {
		writeJSON(w, status, map[string]any{"error_code": "INTERNAL_ERROR", "message": "forced failure"})
		return
	}

	switch {
	case r.Method == http.MethodGet && path == "experiments/get-by-name":
		fs.lookup(w, func(e fakeExperiment) bool { return e.Name == rec.Query.Get("experiment_name") })
	case r.Method == http.MethodGet && path == "experiments/get":
		fs.lookup(w, func(e fakeExperiment) bool { return e.ID == rec.Query.Get("experiment_id") })
	case r.Method == http.MethodGet && path == "experiments/list":
		exps := append([]fakeExperiment(nil), fs.experiments...)
		sort.Slice(exps, func(i, j int) bool { return exps[i].ID < exps[j].ID })
		writeJSON(w, http.StatusOK, map[string]any{"experiments": exps})
	case r.Method == http.MethodPost && path == "experiments/create":
		name, _ := rec.Body["name"].(string)
		for _, e := range fs.experiments {
			if e.Name == name {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error_code": "RESOURCE_ALREADY_EXISTS"})
				return
			}
		}
		id := strconv.Itoa(len(fs.experiments) + 100)
		fs.experiments = append(fs.experiments, fakeExperiment{ID: id, Name: name})
		writeJSON(w, http.StatusOK, map[string]any{"experiment_id": id})
	case r.Method == http.MethodPost && path == "runs/create":
		runID := strings.ReplaceAll(uuid.NewString(), "-", "")
		run := map[string]any{
			"info": map[string]any{
				"run_id":        runID,
				"run_uuid":      runID,
				"experiment_id": rec.Body["experiment_id"],
				"user_id":       rec.Body["user_id"],
				"status":        "RUNNING",
				"start_time":    rec.Body["start_time"],
			},
			"data": map[string]any{},
		}
		fs.runs[runID] = run
		writeJSON(w, http.StatusOK, map[string]any{"run": run})
	case r.Method == http.MethodGet && path == "runs/get":
		run, ok := fs.runs[rec.Query.Get("run_id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error_code": "RESOURCE_DOES_NOT_EXIST"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"run": run})
	case r.Method == http.MethodPost && strings.HasPrefix(path, "runs/"):
		runID, _ := rec.Body["run_id"].(string)
		if _, ok := fs.runs[runID]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error_code": "RESOURCE_DOES_NOT_EXIST"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"error_code": "ENDPOINT_NOT_FOUND"})
	}
}

func (fs *fakeServer) lookup(w http.ResponseWriter, match func(fakeExperiment) bool) {
	for _, e := range fs.experiments {
		if match(e) {
			writeJSON(w, http.StatusOK, map[string]any{"experiment": e})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error_code": "RESOURCE_DOES_NOT_EXIST"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}
