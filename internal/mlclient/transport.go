// Package mlclient talks to the model server that hosts the questionnaire
// classifier, its explainer and the per-frame image classifier.
package mlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout  = 5 * time.Second
	maxResponseBody = 1 << 20
)

// ErrUnavailable indicates the model server is unreachable or failing.
var ErrUnavailable = errors.New("model server unavailable")

// StatusError is a non-2xx answer from the model server.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("model server %s returned %d", e.Path, e.Code)
	}
	return fmt.Sprintf("model server %s returned %d: %s", e.Path, e.Code, e.Body)
}

// Unwrap makes 5xx answers match ErrUnavailable. 4xx answers mean the
// request itself was rejected.
func (e *StatusError) Unwrap() error {
	if e.Code >= http.StatusInternalServerError {
		return ErrUnavailable
	}
	return nil
}

// HealthStatus is the decoded GET /health answer.
type HealthStatus struct {
	Reachable    bool   `json:"reachable"`
	LatencyMs    int64  `json:"latency_ms"`
	ModelVersion string `json:"model_version,omitempty"`
}

type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// doJSON posts req to baseURL+path and decodes the answer into respPtr.
// It returns the HTTP status code, or 0 if none was received.
func doJSON(ctx context.Context, client *http.Client, baseURL, path string, req, respPtr any) (int, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("%s: %w", path, ctxErr)
		}
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return resp.StatusCode, &StatusError{Path: path, Code: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
	}

	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(respPtr); decodeErr != nil {
		return resp.StatusCode, fmt.Errorf("decode %s response: %w", path, decodeErr)
	}
	return resp.StatusCode, nil
}

// doHealth calls GET /health at baseURL.
func doHealth(ctx context.Context, client *http.Client, baseURL string) (HealthStatus, error) {
	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/health", http.NoBody)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := client.Do(httpReq)
	status := HealthStatus{LatencyMs: time.Since(start).Milliseconds()}
	if err != nil {
		return status, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("%w: unhealthy status %d", ErrUnavailable, resp.StatusCode)
	}

	status.Reachable = true
	var healthResp healthResponse
	if decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&healthResp); decodeErr == nil {
		status.ModelVersion = healthResp.ModelVersion
	}
	return status, nil
}
