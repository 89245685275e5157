// Package appclient probes the deployed web application.
package appclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/surf-tools/internal/errs"
	"github.com/deppfellow/surf-tools/internal/model"
)

const serviceName = "Deployed app"

// Client calls the health path of one deployed host.
type Client struct {
	httpClient *http.Client
	healthPath string
}

func NewClient(healthPath string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		healthPath: "/" + strings.TrimLeft(healthPath, "/"),
	}
}

// NormalizeURL prefixes https:// when host has no scheme and drops a
// trailing slash.
func NormalizeURL(host string) string {
	host = strings.TrimSpace(host)
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	return strings.TrimRight(host, "/")
}

// Endpoint returns the full health URL for host.
func (c *Client) Endpoint(host string) string {
	return NormalizeURL(host) + c.healthPath
}

// CheckDB calls the health endpoint on host and decodes its report.
//
// Success requires a 200 and a body that parses as JSON.
func (c *Client) CheckDB(ctx context.Context, host string) (*model.DBReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(host), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach deployed app: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewStatusError(serviceName, resp.StatusCode, body)
	}

	var report model.DBReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}
	return &report, nil
}
