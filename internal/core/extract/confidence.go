package extract

import "github.com/quotelens/quotelens/internal/core/domain"

// Score computes the record-level confidence from the fraction of expected
// fields that were populated: identifier, customer name, effective date, and
// at least one line item. It must be re-run whenever any of those change,
// e.g. after human edits.
func Score(rec domain.ExtractedRecord) domain.ConfidenceLevel {
	checks := []bool{
		present(rec.IdentifierNumber),
		present(rec.CustomerName),
		present(rec.EffectiveDate),
		len(rec.LineItems) > 0,
	}

	populated := 0
	for _, ok := range checks {
		if ok {
			populated++
		}
	}

	ratio := float64(populated) / float64(len(checks))
	switch {
	case ratio >= 0.8:
		return domain.ConfidenceHigh
	case ratio >= 0.5:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func present(s *string) bool {
	return s != nil && *s != ""
}
