package compare

import (
	"reflect"
	"testing"

	"github.com/quotelens/quotelens/internal/core/domain"
)

func TestSummarizeCleanRun(t *testing.T) {
	summary := Summarize(3, 0, nil)

	if summary.Recommendation != domain.RecommendAccept {
		t.Fatalf("recommendation = %s, want accept", summary.Recommendation)
	}
	if summary.AmendmentNotes != nil {
		t.Fatalf("clean run must not carry amendment notes, got %v", summary.AmendmentNotes)
	}
}

func TestSummarizeLineMismatchesForceAmend(t *testing.T) {
	summary := Summarize(1, 2, nil)

	if summary.Recommendation != domain.RecommendAmend {
		t.Fatalf("recommendation = %s, want amend", summary.Recommendation)
	}
	want := []string{"2 line items require price/quantity adjustments"}
	if !reflect.DeepEqual(summary.AmendmentNotes, want) {
		t.Fatalf("notes = %v, want %v", summary.AmendmentNotes, want)
	}
}

func TestSummarizeTermMismatchesForceAmend(t *testing.T) {
	terms := []domain.TermResult{
		{Category: domain.TermPayment, POValue: "30 days net", QuoteValue: "45 days net", Status: domain.StatusMismatched, Risk: domain.RiskMedium},
		{Category: domain.TermWarranty, POValue: "12 months", QuoteValue: "12 months", Status: domain.StatusMatched, Risk: domain.RiskLow},
		{Category: domain.TermDelivery, POValue: "DDP", QuoteValue: "EXW", Status: domain.StatusMismatched, Risk: domain.RiskHigh},
	}

	summary := Summarize(2, 0, terms)

	if summary.Recommendation != domain.RecommendAmend {
		t.Fatalf("recommendation = %s, want amend", summary.Recommendation)
	}
	want := []string{
		`Align Payment Terms: "45 days net" as per original quote`,
		`Align Delivery Terms: "EXW" as per original quote`,
	}
	if !reflect.DeepEqual(summary.AmendmentNotes, want) {
		t.Fatalf("notes = %v, want %v", summary.AmendmentNotes, want)
	}
}

func TestSummarizeMatchedTermsProduceNoNotes(t *testing.T) {
	terms := []domain.TermResult{
		{Category: domain.TermPayment, POValue: "net 30", QuoteValue: "NET 30", Status: domain.StatusMatched, Risk: domain.RiskLow},
	}

	summary := Summarize(1, 0, terms)
	if summary.Recommendation != domain.RecommendAccept || summary.AmendmentNotes != nil {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSummarizeCountsPassThrough(t *testing.T) {
	summary := Summarize(4, 1, nil)
	if summary.MatchedCount != 4 || summary.MismatchedCount != 1 {
		t.Fatalf("counts not preserved: %+v", summary)
	}
}
