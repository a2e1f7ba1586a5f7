package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quotelens/quotelens/internal/core/domain"
)

// rowShape recognizes table-like item rows: a part-number token (internal
// hyphens allowed), at least ten characters of description, an integer
// quantity, a unit price, and optionally a total. Thousands separators are
// permitted in the price columns.
var rowShape = regexp.MustCompile(`([A-Za-z0-9][A-Za-z0-9\-]*)\s+(.{10,}?)\s+(\d+)\s+([\d,]+\.?\d*)\s*([\d,]+\.?\d*)?`)

// LineItems segments candidate item rows out of raw text, one per matching
// physical line, in document order. Lines that do not match the row shape are
// skipped: this is best-effort segmentation, and both missed rows and
// spurious matches inside prose are expected failure modes, not errors.
func LineItems(text string) []domain.LineItem {
	var items []domain.LineItem
	for _, line := range strings.Split(text, "\n") {
		m := rowShape.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		partNumber := strings.TrimSpace(m[1])
		description := strings.TrimSpace(m[2])
		item := domain.LineItem{
			PartNumber:  &partNumber,
			Description: &description,
			Confidence:  domain.ConfidenceMedium,
		}

		if qty, err := strconv.Atoi(m[3]); err == nil && qty >= 0 {
			item.Quantity = &qty
		}
		if price, ok := parsePrice(m[4]); ok {
			item.UnitPrice = &price
		}
		if m[5] != "" {
			if total, ok := parsePrice(m[5]); ok {
				item.TotalPrice = &total
			}
		}

		items = append(items, item)
	}
	return items
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	price, err := decimal.NewFromString(cleaned)
	if err != nil || price.IsNegative() {
		return decimal.Decimal{}, false
	}
	return price, true
}
