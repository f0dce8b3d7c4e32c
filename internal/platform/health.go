package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// HealthStatus is the backend root document.
type HealthStatus struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// Health pings the backend root. Unlike every other call it is retried on
// connection errors and 5xx answers.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	const path = "/"

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, &APIError{Kind: NetworkFailure, Path: path, Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.resty.Header.Get("User-Agent"))

	resp, err := c.health.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		return nil, &APIError{Kind: NetworkFailure, Path: path, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Kind: RequestRejected, StatusCode: resp.StatusCode, Path: path}
	}

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, &APIError{
			Kind:       MalformedResponse,
			StatusCode: resp.StatusCode,
			Path:       path,
			Cause:      fmt.Errorf("failed to decode health response: %w", err),
		}
	}
	return &status, nil
}
