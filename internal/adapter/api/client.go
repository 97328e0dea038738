package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/water-monitor-dashboard/internal/observability"
	"github.com/couchcryptid/water-monitor-dashboard/internal/session"
	"github.com/google/uuid"
)

// ErrUnauthorized is returned for any 401 response. By the time the caller
// sees it the session token has been cleared and navigation to the login
// view has been requested.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is returned for non-2xx responses other than 401.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("monitoring API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("monitoring API error: status %d: %s", e.StatusCode, e.Body)
}

// maxErrorBody bounds how much of an error response is kept in StatusError.
const maxErrorBody = 512

// Client is the monitoring API HTTP wrapper. It attaches the session's bearer
// token to every request and turns 401 responses into a forced logout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    session.Store
	navigator  session.Navigator
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a monitoring API client. A zero timeout keeps the
// transport defaults.
func NewClient(baseURL string, timeout time.Duration, store session.Store, nav session.Navigator, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		session:   store,
		navigator: nav,
		metrics:   metrics,
		logger:    logger,
	}
}

// Get issues a GET for path and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decode(resp, path, out)
}

// Post sends body as JSON to path and decodes the JSON response into out.
// A nil out discards the response body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	resp, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return decode(resp, path, out)
}

// Download is a binary response body.
type Download struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Download issues a GET for path and returns the raw body.
func (c *Client) Download(ctx context.Context, path string) (Download, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Download{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Download{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Download{
		ContentType: resp.Header.Get("Content-Type"),
		Filename:    filenameFromDisposition(resp.Header.Get("Content-Disposition")),
		Data:        data,
	}, nil
}

// CheckReadiness reports whether the monitoring API answers HTTP at all.
// Any status code counts as reachable.
func (c *Client) CheckReadiness(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("monitoring API unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	resource := resourceLabel(path)
	start := time.Now()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.session.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	c.metrics.APIRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		c.metrics.APIRequests.WithLabelValues(resource, "unauthorized").Inc()
		c.forceLogout(ctx, path)
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()
		c.metrics.APIRequests.WithLabelValues(resource, "error").Inc()
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	c.metrics.APIRequests.WithLabelValues(resource, "success").Inc()
	return resp, nil
}

func (c *Client) forceLogout(ctx context.Context, path string) {
	c.logger.Warn("monitoring API rejected credentials, logging out", "path", path)
	if err := c.session.ClearToken(); err != nil {
		c.logger.Error("clear session token failed", "error", err)
	}
	session.NavigatorFrom(ctx, c.navigator).Navigate(session.LoginPath)
}

func decode(resp *http.Response, path string, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// resourceLabel maps "/api/reports/7/download" to "reports" for metric labels.
func resourceLabel(path string) string {
	p := strings.TrimPrefix(path, "/")
	p = strings.TrimPrefix(p, "api/")
	if i := strings.IndexAny(p, "/?"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "root"
	}
	return p
}

func filenameFromDisposition(v string) string {
	for _, part := range strings.Split(v, ";") {
		part = strings.TrimSpace(part)
		if name, ok := strings.CutPrefix(part, "filename="); ok {
			return strings.Trim(name, `"`)
		}
	}
	return ""
}
