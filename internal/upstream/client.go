package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds each provider call.
	DefaultTimeout = 5 * time.Second

	// maxResponseBytes caps how much of a provider response is read.
	maxResponseBytes = 1 << 20
)

// httpDoer is the minimal HTTP client surface the adapter needs, kept small
// so tests can substitute canned transports.
type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config carries the provider endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client translates normalized catalog queries into calls against the opaque
// provider API. It performs no retries; retry policy belongs to callers.
type Client struct {
	base   *url.URL
	client httpDoer
	logger *slog.Logger
}

// NewClient validates the provider base URL and prepares the adapter.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	trimmed := strings.TrimSpace(cfg.BaseURL)
	if trimmed == "" {
		return nil, errors.New("upstream: base url required")
	}
	base, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("upstream: base url %q missing scheme or host", trimmed)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
		logger: logger.With(slog.String("component", "upstream")),
	}, nil
}

// Search asks the provider for up to limit free listings matching term. The
// provider is never asked for a page offset; one call returns at most limit
// records regardless of the page the caller is assembling.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]RawApp, error) {
	endpoint := c.base.JoinPath("search")
	values := endpoint.Query()
	values.Set("q", term)
	values.Set("num", strconv.Itoa(limit))
	values.Set("price", "free")
	endpoint.RawQuery = values.Encode()

	var apps []RawApp
	if err := c.getJSON(ctx, endpoint.String(), &apps); err != nil {
		return nil, fmt.Errorf("upstream: search: %w", err)
	}
	if len(apps) > limit {
		apps = apps[:limit]
	}
	return apps, nil
}

// Details fetches the full provider record for one application.
func (c *Client) Details(ctx context.Context, appID string) (RawApp, error) {
	endpoint := c.base.JoinPath("apps", appID)

	var app RawApp
	if err := c.getJSON(ctx, endpoint.String(), &app); err != nil {
		return RawApp{}, fmt.Errorf("upstream: details %s: %w", appID, err)
	}
	if app.AppID == "" {
		return RawApp{}, fmt.Errorf("upstream: details %s: empty provider record", appID)
	}
	return app, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	closeErr := resp.Body.Close()
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close response: %w", closeErr)
	}

	c.logger.Debug("provider call completed",
		slog.String("url", rawURL),
		slog.Int("status", resp.StatusCode),
		slog.Float64("latency_ms", float64(time.Since(start))/float64(time.Millisecond)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider status %d", resp.StatusCode)
	}
	if len(body) == 0 {
		return errors.New("empty provider response")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
