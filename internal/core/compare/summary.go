package compare

import (
	"fmt"

	"github.com/quotelens/quotelens/internal/core/domain"
)

// Summarize aggregates the tallies accumulated during line-item comparison
// and the term results into a recommendation. Any mismatched row or term
// forces "amend"; a clean comparison yields "accept" with nil notes.
func Summarize(matchedCount, mismatchedCount int, terms []domain.TermResult) domain.Summary {
	summary := domain.Summary{
		MatchedCount:    matchedCount,
		MismatchedCount: mismatchedCount,
		Recommendation:  domain.RecommendAccept,
	}

	if mismatchedCount > 0 {
		summary.Recommendation = domain.RecommendAmend
		summary.AmendmentNotes = append(summary.AmendmentNotes,
			fmt.Sprintf("%d line items require price/quantity adjustments", mismatchedCount))
	}

	for _, term := range terms {
		if term.Status != domain.StatusMismatched {
			continue
		}
		summary.Recommendation = domain.RecommendAmend
		summary.AmendmentNotes = append(summary.AmendmentNotes,
			fmt.Sprintf("Align %s: %q as per original quote", term.Category, term.QuoteValue))
	}

	return summary
}
