package edgar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoDocument is returned when a filing's index has no structured
// transaction document.
var ErrNoDocument = errors.New("no ownership document in filing index")

// filingIndex mirrors the index.json of one filing directory.
type filingIndex struct {
	Directory struct {
		Item []struct {
			Name string `json:"name"`
		} `json:"item"`
	} `json:"directory"`
}

// ResolveDocument locates the structured ownership document of a filing and
// returns its URL. Returns ErrNoDocument when the index holds no XML member.
func (c *Client) ResolveDocument(ctx context.Context, cik, accessionNumber string) (string, error) {
	dir := strings.ReplaceAll(accessionNumber, "-", "")
	indexURL := fmt.Sprintf("%s/%s/%s/index.json", c.archivesURL, cik, dir)

	start := time.Now()
	var index filingIndex
	err := c.getJSON(ctx, indexURL, &index)
	c.observe("index", start, err)
	if err != nil {
		return "", fmt.Errorf("fetch filing index %s: %w", accessionNumber, err)
	}

	for _, item := range index.Directory.Item {
		if strings.HasSuffix(item.Name, ".xml") {
			return fmt.Sprintf("%s/%s/%s/%s", c.archivesURL, cik, dir, item.Name), nil
		}
	}

	return "", ErrNoDocument
}
