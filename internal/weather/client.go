// Package weather is a client for the WillyWeather v2 API.
//
// Only the location-weather endpoint is covered, which is all the
// connection tester needs to prove the API key works.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/deppfellow/surf-tools/internal/config"
	"github.com/deppfellow/surf-tools/internal/errs"
)

const serviceName = "WillyWeather"

// UnknownLocation is reported when the response carries no location name.
const UnknownLocation = "Unknown"

// Client calls WillyWeather with a single API key.
type Client struct {
	baseURL    string
	apiKey     string
	forecasts  string
	days       int
	httpClient *http.Client
}

// NewClient creates a client from the weather config block.
func NewClient(cfg config.WeatherConfig, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		forecasts:  cfg.Forecasts,
		days:       cfg.Days,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Location is the location block of a weather response.
type Location struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
}

// Response is the part of the weather.json payload the tools read.
// Forecasts is kept raw; the connection check only cares that it parses.
type Response struct {
	Location  *Location       `json:"location"`
	Forecasts json.RawMessage `json:"forecasts"`
}

// LocationName returns the location name or UnknownLocation.
func (r *Response) LocationName() string {
	if r == nil || r.Location == nil || r.Location.Name == "" {
		return UnknownLocation
	}
	return r.Location.Name
}

// Forecast fetches the configured forecasts for locationID.
//
// Any status other than 200 is returned as *errs.StatusError.
func (c *Client) Forecast(ctx context.Context, locationID int) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.forecastURL(locationID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", serviceName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", serviceName, redact(err, c.apiKey))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", serviceName, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewStatusError(serviceName, resp.StatusCode, body)
	}

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", serviceName, err)
	}
	return &out, nil
}

// forecastURL builds {base}/{key}/locations/{id}/weather.json?forecasts=...&days=...
func (c *Client) forecastURL(locationID int) string {
	query := url.Values{}
	query.Set("forecasts", c.forecasts)
	query.Set("days", strconv.Itoa(c.days))

	return fmt.Sprintf("%s/%s/locations/%d/weather.json?%s",
		c.baseURL, url.PathEscape(c.apiKey), locationID, query.Encode())
}

// redact strips the API key, which WillyWeather puts in the path, from
// transport errors before they reach a log.
func redact(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), key, "****"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
