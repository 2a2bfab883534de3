package edgar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"insider-trade-lab/internal/domain"
)

// ErrNoShares is returned when the submissions endpoint carries no usable
// shares-outstanding figure for a company.
var ErrNoShares = errors.New("no shares outstanding in submissions data")

// submissionsResponse mirrors the subset of the company submissions JSON the
// pipeline reads.
type submissionsResponse struct {
	EntityInfo struct {
		SharesOutstanding float64 `json:"sharesOutstanding"`
	} `json:"entityInfo"`
}

// FetchSharesOutstanding queries the company submissions endpoint for total
// shares outstanding. This is the primary regulator-provided source; a zero
// or absent figure is reported as ErrNoShares.
func (c *Client) FetchSharesOutstanding(ctx context.Context, cik string) (float64, error) {
	url := fmt.Sprintf("%s/CIK%s.json", c.submissionsURL, domain.PadCIK(cik))

	start := time.Now()
	var resp submissionsResponse
	err := c.getJSON(ctx, url, &resp)
	c.observe("submissions", start, err)
	if err != nil {
		return 0, fmt.Errorf("fetch submissions for CIK %s: %w", cik, err)
	}

	if resp.EntityInfo.SharesOutstanding <= 0 {
		return 0, ErrNoShares
	}
	return resp.EntityInfo.SharesOutstanding, nil
}
