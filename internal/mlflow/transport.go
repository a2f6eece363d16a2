package mlflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// StatusNoOp is returned instead of an HTTP status when a logging call had
// nothing to send. No request is issued in that case.
const StatusNoOp = 0

// StatusError reports a response other than 200 OK.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsStatus reports whether err is a StatusError carrying code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}

// do issues one request against baseURL/path. It returns the HTTP status
// together with a *StatusError for non-200 responses, or status 0 with a
// transport error when no response was received.
func (t *Tracking) do(ctx context.Context, method, path string, query url.Values, req, res any) (int, error) {
	if method == http.MethodGet && req != nil {
		return 0, fmt.Errorf("GET requests cannot have a body")
	}

	u := t.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if req != nil {
		reqJSON, err := json.Marshal(req)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request to JSON: %w", err)
		}
		body = bytes.NewReader(reqJSON)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	t.logger.Debug("Sending request", "method", method, "path", path)
	httpRes, err := t.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to %s %s: %w", method, path, err)
	}
	defer httpRes.Body.Close()

	resBody, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return httpRes.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpRes.StatusCode != http.StatusOK {
		return httpRes.StatusCode, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: httpRes.StatusCode,
			Body:       string(resBody),
		}
	}

	if res != nil && len(resBody) > 0 {
		if err := json.Unmarshal(resBody, res); err != nil {
			return httpRes.StatusCode, fmt.Errorf("failed to decode response body: %s: %w", resBody, err)
		}
	}
	return httpRes.StatusCode, nil
}

// get fetches a read-only resource; non-200 comes back as *StatusError.
func (t *Tracking) get(ctx context.Context, path string, query url.Values, res any) error {
	_, err := t.do(ctx, http.MethodGet, path, query, nil, res)
	return err
}

// post sends a write. A rejected write is not an error: the raw status is
// returned for the caller to judge, and the rejection is logged.
func (t *Tracking) post(ctx context.Context, path string, req, res any) (int, error) {
	status, err := t.do(ctx, http.MethodPost, path, nil, req, res)

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		t.logger.Warn("Request rejected", "path", path, "status", status, "body", statusErr.Body)
		return status, nil
	}
	return status, err
}
