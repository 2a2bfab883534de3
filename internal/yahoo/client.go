// Package yahoo provides the secondary shares-outstanding source, backed by
// the Yahoo Finance quoteSummary endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Yahoo blocks generic clients (401/429), so a browser User-Agent is required.
const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// QuoteSummaryURL is the production quoteSummary endpoint.
const QuoteSummaryURL = "https://query1.finance.yahoo.com/v10/finance/quoteSummary"

// DefaultTimeout bounds each quote lookup.
const DefaultTimeout = 10 * time.Second

// ErrNoShares is returned when Yahoo reports no shares-outstanding figure
// for a symbol.
var ErrNoShares = errors.New("no shares outstanding for symbol")

// Client queries Yahoo Finance for company statistics.
type Client struct {
	baseURL string
	client  *http.Client
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the quoteSummary endpoint. Used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// New creates a new Yahoo Finance client.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: QuoteSummaryURL,
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// quoteSummaryResponse mirrors the defaultKeyStatistics module subset the
// pipeline reads.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			DefaultKeyStatistics struct {
				SharesOutstanding struct {
					Raw float64 `json:"raw"`
				} `json:"sharesOutstanding"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"quoteSummary"`
}

// SharesOutstanding returns the total issued shares reported for a trading
// symbol. A missing or non-positive figure is reported as ErrNoShares.
func (c *Client) SharesOutstanding(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("modules", "defaultKeyStatistics")
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("quote summary request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, symbol)
	}

	var parsed quoteSummaryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("unmarshal quote summary: %w", err)
	}

	if len(parsed.QuoteSummary.Result) == 0 {
		return 0, ErrNoShares
	}
	shares := parsed.QuoteSummary.Result[0].DefaultKeyStatistics.SharesOutstanding.Raw
	if shares <= 0 {
		return 0, ErrNoShares
	}
	return shares, nil
}
