package edgar

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"insider-trade-lab/internal/domain"
)

// symbolNone is the sentinel EDGAR uses for issuers without a trading symbol.
const symbolNone = "NONE"

// Form4 is the normalized content of one ownership document.
type Form4 struct {
	IssuerName   string
	IssuerSymbol string
	OwnerName    string
	OwnerTitle   *string // role labels joined with " & ", nil if no role flag set

	// Transactions holds the retained non-derivative transactions. Empty when
	// the issuer has no usable trading symbol; such filings are non-actionable
	// and must not be persisted.
	Transactions []domain.RawTransaction
}

// Listed reports whether the issuer has a real trading symbol.
func (f *Form4) Listed() bool {
	return f.IssuerSymbol != "" && !strings.EqualFold(f.IssuerSymbol, symbolNone)
}

// ownershipDocument mirrors the subset of the Form 4 XML schema the
// pipeline reads.
type ownershipDocument struct {
	XMLName xml.Name `xml:"ownershipDocument"`

	Issuer struct {
		Name   string `xml:"issuerName"`
		Symbol string `xml:"issuerTradingSymbol"`
	} `xml:"issuer"`

	ReportingOwner struct {
		ID struct {
			Name string `xml:"rptOwnerName"`
		} `xml:"reportingOwnerId"`
		Relationship *ownerRelationship `xml:"reportingOwnerRelationship"`
	} `xml:"reportingOwner"`

	NonDerivativeTable struct {
		Transactions []nonDerivativeTransaction `xml:"nonDerivativeTransaction"`
	} `xml:"nonDerivativeTable"`
}

type ownerRelationship struct {
	IsDirector        string `xml:"isDirector"`
	IsOfficer         string `xml:"isOfficer"`
	OfficerTitle      string `xml:"officerTitle"`
	IsTenPercentOwner string `xml:"isTenPercentOwner"`
	IsOther           string `xml:"isOther"`
}

type nonDerivativeTransaction struct {
	Date   valueOf `xml:"transactionDate"`
	Coding struct {
		Code string `xml:"transactionCode"`
	} `xml:"transactionCoding"`
	Amounts struct {
		Shares valueOf `xml:"transactionShares"`
		Price  valueOf `xml:"transactionPricePerShare"`
	} `xml:"transactionAmounts"`
	PostAmounts struct {
		SharesOwned valueOf `xml:"sharesOwnedFollowingTransaction"`
	} `xml:"postTransactionAmounts"`
}

// valueOf unwraps the <value> element EDGAR nests numeric fields in.
type valueOf struct {
	Value string `xml:"value"`
}

// FetchForm4 retrieves and parses an ownership document by URL.
func (c *Client) FetchForm4(ctx context.Context, url string) (*Form4, error) {
	start := time.Now()
	body, err := c.get(ctx, url)
	c.observe("form4", start, err)
	if err != nil {
		return nil, fmt.Errorf("fetch form 4: %w", err)
	}
	return ParseForm4(body)
}

// ParseForm4 decodes an ownership document and applies the retention rules:
// only non-derivative transactions with an actionable code are kept, and a
// transaction missing shares or price is dropped. A filing whose issuer has
// no usable trading symbol yields zero transactions. A transaction without a
// post-transaction share count makes the whole document unusable, since
// holdings cannot be reconstructed from it.
func ParseForm4(data []byte) (*Form4, error) {
	var doc ownershipDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse ownership document: %w", err)
	}

	form := &Form4{
		IssuerName:   strings.TrimSpace(doc.Issuer.Name),
		IssuerSymbol: strings.TrimSpace(doc.Issuer.Symbol),
		OwnerName:    strings.TrimSpace(doc.ReportingOwner.ID.Name),
		OwnerTitle:   ownerTitle(doc.ReportingOwner.Relationship),
	}

	if !form.Listed() {
		return form, nil
	}

	for _, tx := range doc.NonDerivativeTable.Transactions {
		code := domain.TransactionCode(strings.TrimSpace(tx.Coding.Code))
		if !code.Actionable() {
			continue
		}

		shares := parseFloat(tx.Amounts.Shares.Value)
		price := parseFloat(tx.Amounts.Price.Value)
		if shares == nil || *shares <= 0 || price == nil || *price <= 0 {
			continue
		}

		after := parseFloat(tx.PostAmounts.SharesOwned.Value)
		if after == nil {
			return nil, fmt.Errorf("transaction on %s missing post-transaction share count", tx.Date.Value)
		}

		form.Transactions = append(form.Transactions, domain.RawTransaction{
			Code:        code,
			Date:        strings.TrimSpace(tx.Date.Value),
			Shares:      *shares,
			Price:       *price,
			SharesAfter: *after,
		})
	}

	return form, nil
}

// ownerTitle concatenates the role labels of every set relationship flag,
// joined with " & ". An officer contributes the officer title, or the literal
// "Officer" when no title is given.
func ownerTitle(rel *ownerRelationship) *string {
	if rel == nil {
		return nil
	}

	var parts []string
	if flagSet(rel.IsDirector) {
		parts = append(parts, "Director")
	}
	if flagSet(rel.IsOfficer) {
		title := strings.TrimSpace(rel.OfficerTitle)
		if title == "" {
			title = "Officer"
		}
		parts = append(parts, title)
	}
	if flagSet(rel.IsTenPercentOwner) {
		parts = append(parts, "10% Owner")
	}
	if flagSet(rel.IsOther) {
		parts = append(parts, "Other")
	}

	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, " & ")
	return &joined
}

// flagSet interprets the boolean encodings seen in real filings.
func flagSet(v string) bool {
	switch strings.TrimSpace(v) {
	case "1", "true", "True":
		return true
	}
	return false
}

// parseFloat converts a numeric field tolerantly: thousands separators and
// surrounding whitespace are stripped. Unparseable values become nil.
func parseFloat(v string) *float64 {
	s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
