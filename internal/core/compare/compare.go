package compare

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quotelens/quotelens/internal/core/domain"
)

var (
	hundred           = decimal.NewFromInt(100)
	varianceThreshold = decimal.NewFromInt(5)
)

// Comparator reconciles a PO record against a quote record. Compare is a pure
// function: identical inputs always produce a field-for-field identical
// report.
type Comparator struct{}

func NewComparator() *Comparator {
	return &Comparator{}
}

func (c *Comparator) Compare(po, quote *domain.ExtractedRecord) domain.ComparisonReport {
	lineResults, matched, mismatched := c.compareLineItems(po.LineItems, quote.LineItems)
	termResults := c.compareTerms(po, quote)

	return domain.ComparisonReport{
		LineItems: lineResults,
		Terms:     termResults,
		Summary:   Summarize(matched, mismatched, termResults),
	}
}

// compareLineItems enumerates PO items in stored order; quote-only items are
// never surfaced as extra rows. The price check assigns the matched/
// mismatched tally and the base status; a subsequent quantity mismatch
// downgrades the status and appends an issue but deliberately leaves the
// tally as the price check set it.
func (c *Comparator) compareLineItems(poItems, quoteItems []domain.LineItem) ([]domain.LineItemResult, int, int) {
	results := make([]domain.LineItemResult, 0, len(poItems))
	matched, mismatched := 0, 0

	for _, poItem := range poItems {
		quoteItem := findByPartNumber(quoteItems, poItem.PartNumber)
		if quoteItem == nil {
			mismatched++
			results = append(results, domain.LineItemResult{
				POItem: poItem,
				Status: domain.StatusMismatched,
				Issues: []string{domain.IssuePartNotFound},
			})
			continue
		}

		result := domain.LineItemResult{
			POItem:    poItem,
			QuoteItem: quoteItem,
			Status:    domain.StatusMatched,
		}

		variance := priceVariance(poItem.UnitPrice, quoteItem.UnitPrice)
		switch {
		case variance == nil:
			matched++
		case variance.Abs().GreaterThan(varianceThreshold):
			mismatched++
			result.Status = domain.StatusMismatched
			result.Issues = append(result.Issues, domain.IssuePriceVariance)
		case variance.Abs().GreaterThan(decimal.Zero):
			matched++
			result.Status = domain.StatusPriceDeviation
			result.Issues = append(result.Issues, domain.IssueMinorPriceDiff)
		default:
			matched++
		}

		if variance != nil {
			abs := variance.Abs()
			result.PriceVariancePercent = &abs
		}

		if poItem.Quantity != nil && quoteItem.Quantity != nil && *poItem.Quantity != *quoteItem.Quantity {
			result.Status = domain.StatusMismatched
			result.Issues = append(result.Issues, domain.IssueQuantityMismatch)
		}

		results = append(results, result)
	}

	return results, matched, mismatched
}

// findByPartNumber returns the first quote item whose part number equals the
// PO part number, case-insensitively. Duplicates are legal on both sides; the
// first match wins and is not consumed. Absence of a part number on either
// side makes the pairing impossible.
func findByPartNumber(items []domain.LineItem, partNumber *string) *domain.LineItem {
	if partNumber == nil || *partNumber == "" {
		return nil
	}
	for i := range items {
		if items[i].PartNumber == nil {
			continue
		}
		if strings.EqualFold(*items[i].PartNumber, *partNumber) {
			return &items[i]
		}
	}
	return nil
}

// priceVariance computes (po - quote) / quote * 100, signed. It returns nil
// when either price is absent or the quote price is zero: variance is
// undetermined rather than a division error.
func priceVariance(poPrice, quotePrice *decimal.Decimal) *decimal.Decimal {
	if poPrice == nil || quotePrice == nil || quotePrice.IsZero() {
		return nil
	}
	variance := poPrice.Sub(*quotePrice).Div(*quotePrice).Mul(hundred)
	return &variance
}

// termRiskOnMismatch fixes the per-category risk assigned to a mismatched
// term. Delivery terms carry incoterms and are treated as commercially
// sensitive.
var termRiskOnMismatch = map[domain.TermCategory]domain.RiskLevel{
	domain.TermPayment:  domain.RiskMedium,
	domain.TermWarranty: domain.RiskMedium,
	domain.TermDelivery: domain.RiskHigh,
}

// compareTerms evaluates each commercial term category for which both sides
// carry a non-empty value. Equality is a case-insensitive exact match with no
// further normalization.
func (c *Comparator) compareTerms(po, quote *domain.ExtractedRecord) []domain.TermResult {
	categories := []struct {
		category   domain.TermCategory
		poValue    *string
		quoteValue *string
	}{
		{domain.TermPayment, po.PaymentTerms, quote.PaymentTerms},
		{domain.TermWarranty, po.WarrantyTerms, quote.WarrantyTerms},
		{domain.TermDelivery, po.DeliveryTerms, quote.DeliveryTerms},
	}

	var results []domain.TermResult
	for _, tc := range categories {
		if !hasValue(tc.poValue) || !hasValue(tc.quoteValue) {
			continue
		}

		result := domain.TermResult{
			Category:   tc.category,
			POValue:    *tc.poValue,
			QuoteValue: *tc.quoteValue,
		}
		if strings.EqualFold(*tc.poValue, *tc.quoteValue) {
			result.Status = domain.StatusMatched
			result.Risk = domain.RiskLow
		} else {
			result.Status = domain.StatusMismatched
			result.Risk = termRiskOnMismatch[tc.category]
		}
		results = append(results, result)
	}
	return results
}

func hasValue(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
