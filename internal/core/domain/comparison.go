package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type MatchStatus string

const (
	StatusMatched        MatchStatus = "matched"
	StatusMismatched     MatchStatus = "mismatched"
	StatusPriceDeviation MatchStatus = "price_deviation"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type Recommendation string

const (
	RecommendAccept Recommendation = "accept"
	RecommendAmend  Recommendation = "amend"
)

const (
	IssuePartNotFound     = "Part not found in quote"
	IssuePriceVariance    = "Price variance exceeds 5%"
	IssueMinorPriceDiff   = "Minor price difference"
	IssueQuantityMismatch = "Quantity mismatch"
)

type TermCategory string

const (
	TermPayment  TermCategory = "Payment Terms"
	TermWarranty TermCategory = "Warranty Terms"
	TermDelivery TermCategory = "Delivery Terms"
)

// LineItemResult pairs one PO line with its first part-number match on the
// quote side. PriceVariancePercent is the absolute variance; nil means the
// variance could not be determined (missing or zero quote price).
type LineItemResult struct {
	POItem               LineItem         `json:"po_item"`
	QuoteItem            *LineItem        `json:"quote_item,omitempty"`
	Status               MatchStatus      `json:"status"`
	Issues               []string         `json:"issues,omitempty"`
	PriceVariancePercent *decimal.Decimal `json:"price_variance_percent,omitempty"`
}

type TermResult struct {
	Category   TermCategory `json:"category"`
	POValue    string       `json:"po_value"`
	QuoteValue string       `json:"quote_value"`
	Status     MatchStatus  `json:"status"`
	Risk       RiskLevel    `json:"risk"`
}

// Summary aggregates the per-row tallies into a recommendation.
// AmendmentNotes is nil when the comparison produced no issues.
type Summary struct {
	MatchedCount    int            `json:"matched_count"`
	MismatchedCount int            `json:"mismatched_count"`
	Recommendation  Recommendation `json:"recommendation"`
	AmendmentNotes  []string       `json:"amendment_notes,omitempty"`
}

// ComparisonReport is produced fresh per analysis run and never mutated
// afterwards.
type ComparisonReport struct {
	LineItems []LineItemResult `json:"line_item_results"`
	Terms     []TermResult     `json:"term_results"`
	Summary   Summary          `json:"summary"`
}

// Analysis is one persisted comparison run over a PO/Quote document pair.
type Analysis struct {
	ID              string           `json:"id"`
	PODocumentID    string           `json:"po_document_id"`
	QuoteDocumentID string           `json:"quote_document_id"`
	Report          ComparisonReport `json:"report"`
	CreatedBy       string           `json:"created_by,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
