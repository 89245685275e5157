// Package supabase wraps postgrest-go for the two calls the tools make
// against the Supabase REST API: a bounded select and an upsert on a
// composite conflict key.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/surf-tools/internal/errs"
	"github.com/supabase-community/postgrest-go"
)

const (
	restPath    = "/rest/v1"
	serviceName = "Supabase"
)

// Client talks to one Supabase project with one API key.
type Client struct {
	restURL string
	apiKey  string
	timeout time.Duration
	base    http.RoundTripper
}

// NewClient creates a client for the project at baseURL
// (e.g. https://abc.supabase.co). Every request uses timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		restURL: strings.TrimRight(baseURL, "/") + restPath,
		apiKey:  apiKey,
		timeout: timeout,
		base:    http.DefaultTransport,
	}
}

// boundTransport sends postgrest requests under ctx and remembers the last
// response status, which postgrest-go folds into a plain error string.
type boundTransport struct {
	ctx    context.Context
	next   http.RoundTripper
	status int
}

func (t *boundTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req.WithContext(t.ctx))
	if resp != nil {
		t.status = resp.StatusCode
	}
	return resp, err
}

// session returns a postgrest client whose requests are bound to ctx.
// postgrest-go has no context support, so every call gets its own client.
func (c *Client) session(ctx context.Context) (*postgrest.Client, *boundTransport) {
	transport := &boundTransport{ctx: ctx, next: c.base}

	pc := postgrest.NewClient(c.restURL, "public", map[string]string{
		"apikey":        c.apiKey,
		"Authorization": "Bearer " + c.apiKey,
	})
	if pc.ClientError == nil {
		pc.Transport.Parent = transport
	}
	return pc, transport
}

// Select fetches up to limit rows of columns from table and decodes them into out.
func (c *Client) Select(ctx context.Context, table, columns string, limit int, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pc, transport := c.session(ctx)
	body, _, err := pc.From(table).Select(columns, "", false).Limit(limit, "").Execute()
	if err != nil {
		return c.wrap(transport, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s rows: %w", table, err)
	}
	return nil
}

// Upsert inserts row into table, merging with an existing row that has the
// same values for the onConflict columns.
func (c *Client) Upsert(ctx context.Context, table string, row any, onConflict []string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pc, transport := c.session(ctx)
	_, _, err := pc.From(table).Upsert(row, strings.Join(onConflict, ","), "minimal", "").Execute()
	if err != nil {
		return c.wrap(transport, err)
	}
	return nil
}

// wrap turns a postgrest error into a StatusError when the server answered,
// and into a transport error when it did not.
func (c *Client) wrap(transport *boundTransport, err error) error {
	if transport.status >= http.StatusBadRequest {
		statusErr := errs.NewStatusError(serviceName, transport.status, []byte(err.Error()))
		statusErr.Code = errorCode(err.Error())
		return statusErr
	}
	return fmt.Errorf("%s request failed: %w", serviceName, err)
}

// errorCode extracts the code from postgrest-go's "(code) message" errors.
// For database failures PostgREST reports the SQLSTATE here.
func errorCode(msg string) string {
	if !strings.HasPrefix(msg, "(") {
		return ""
	}
	if end := strings.IndexByte(msg, ')'); end > 1 {
		return msg[1:end]
	}
	return ""
}
