package edgar

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// FilingRef identifies one filing discovered in the Atom feed.
type FilingRef struct {
	AccessionNumber string // second-to-last path segment of the entry link
	CIK             string // parsed from the entry title
	ReportingName   string // parsed from the entry title
	FormType        string // entry category term
	Link            string // filing index page URL
	Updated         string // feed update timestamp, as published
}

// atomFeed mirrors the subset of the EDGAR Atom feed the pipeline reads.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title    string `xml:"title"`
	Updated  string `xml:"updated"`
	Link     struct {
		Href string `xml:"href,attr"`
	} `xml:"link"`
	Category struct {
		Term string `xml:"term,attr"`
	} `xml:"category"`
}

// FetchFeed retrieves the current-events feed and returns one FilingRef per
// well-formed entry. Malformed entries are dropped; their parse errors are
// returned alongside the good refs so the caller can log them.
func (c *Client) FetchFeed(ctx context.Context) ([]*FilingRef, []error, error) {
	start := time.Now()
	body, err := c.get(ctx, c.feedURL)
	c.observe("feed", start, err)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch atom feed: %w", err)
	}

	var feed atomFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, nil, fmt.Errorf("parse atom feed: %w", err)
	}

	var refs []*FilingRef
	var dropped []error
	for _, entry := range feed.Entries {
		ref, err := parseFeedEntry(entry)
		if err != nil {
			dropped = append(dropped, err)
			continue
		}
		refs = append(refs, ref)
	}

	return refs, dropped, nil
}

// parseFeedEntry extracts a FilingRef from an Atom entry. Entry titles follow
// the fixed convention "<FormType> - <ReportingName> (<CIK>)".
func parseFeedEntry(entry atomEntry) (*FilingRef, error) {
	parts := strings.SplitN(entry.Title, " - ", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed feed title %q", entry.Title)
	}

	open := strings.Index(parts[1], "(")
	end := strings.Index(parts[1], ")")
	if open < 0 || end < open {
		return nil, fmt.Errorf("missing CIK in feed title %q", entry.Title)
	}
	reportingName := strings.TrimSpace(parts[1][:open])
	cik := strings.TrimSpace(parts[1][open+1 : end])
	if reportingName == "" || cik == "" {
		return nil, fmt.Errorf("empty name or CIK in feed title %q", entry.Title)
	}

	accession := accessionFromLink(entry.Link.Href)
	if accession == "" {
		return nil, fmt.Errorf("no accession number in link %q", entry.Link.Href)
	}

	return &FilingRef{
		AccessionNumber: accession,
		CIK:             cik,
		ReportingName:   reportingName,
		FormType:        entry.Category.Term,
		Link:            entry.Link.Href,
		Updated:         entry.Updated,
	}, nil
}

// accessionFromLink returns the second-to-last path segment of an entry link,
// which EDGAR index links use for the accession directory.
func accessionFromLink(link string) string {
	segments := strings.Split(strings.TrimRight(link, "/"), "/")
	if len(segments) < 2 {
		return ""
	}
	return segments[len(segments)-2]
}
