// Package edgar provides the SEC EDGAR client surface: the current-events
// Atom feed, filing document indexes, Form 4 ownership documents, and the
// company submissions endpoint used as the primary shares-outstanding source.
package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"insider-trade-lab/internal/observability"
)

// Default configuration values. SEC's fair access policy allows at most
// 10 requests per second per client.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second
	DefaultMaxDelay   = 10 * time.Second
	DefaultRateLimit  = 8 // requests per second
)

// backoffMult is the exponential backoff multiplier between retries.
const backoffMult = 2.0

// Production SEC endpoints.
const (
	// FeedURL lists the most recent Form 4 filings across all filers.
	FeedURL = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent&type=4&owner=only&count=1000&output=atom"

	// ArchivesURL is the root of the EDGAR filing archive.
	ArchivesURL = "https://www.sec.gov/Archives/edgar/data"

	// SubmissionsURL is the root of the company submissions API.
	SubmissionsURL = "https://data.sec.gov/submissions"
)

// Client is a rate-limited HTTP client for SEC endpoints. SEC requires a
// User-Agent identifying the application and a contact address.
type Client struct {
	userAgent  string
	client     *http.Client
	limiter    *rate.Limiter
	maxRetries int
	retryDelay time.Duration
	maxDelay   time.Duration

	feedURL        string
	archivesURL    string
	submissionsURL string

	obs *observability.Metrics
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRateLimit sets the outbound request rate in requests per second.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithFeedURL overrides the Atom feed URL. Used by tests.
func WithFeedURL(url string) ClientOption {
	return func(c *Client) {
		c.feedURL = url
	}
}

// WithArchivesURL overrides the filing archive base URL. Used by tests.
func WithArchivesURL(url string) ClientOption {
	return func(c *Client) {
		c.archivesURL = url
	}
}

// WithSubmissionsURL overrides the submissions base URL. Used by tests.
func WithSubmissionsURL(url string) ClientOption {
	return func(c *Client) {
		c.submissionsURL = url
	}
}

// WithMetrics wires external-call latency and error metrics.
func WithMetrics(obs *observability.Metrics) ClientOption {
	return func(c *Client) {
		c.obs = obs
	}
}

// NewClient creates a new SEC EDGAR client. userAgent must follow SEC's
// "AppName/Version (contact@example.com)" convention.
func NewClient(userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		userAgent:  userAgent,
		client:     &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		maxDelay:   DefaultMaxDelay,

		feedURL:        FeedURL,
		archivesURL:    ArchivesURL,
		submissionsURL: SubmissionsURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get performs a rate-limited GET with retries and exponential backoff.
func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = time.Duration(float64(delay) * backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/xml,application/json,text/html")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
			continue
		}

		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// observe records latency and error counts for one external call.
func (c *Client) observe(source string, start time.Time, err error) {
	if c.obs == nil {
		return
	}
	c.obs.ExternalCallLatency.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		c.obs.ExternalCallErrors.WithLabelValues(source).Inc()
	}
}

// getJSON performs a GET and unmarshals the JSON response body.
func (c *Client) getJSON(ctx context.Context, url string, result interface{}) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
