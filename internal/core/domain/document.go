package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type DocumentKind string

const (
	KindPurchaseOrder DocumentKind = "purchase_order"
	KindQuote         DocumentKind = "quote"
)

func (k DocumentKind) Valid() bool {
	return k == KindPurchaseOrder || k == KindQuote
}

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusExtracting DocumentStatus = "extracting"
	StatusExtracted  DocumentStatus = "extracted"
	StatusValidated  DocumentStatus = "validated"
	StatusFailed     DocumentStatus = "failed"
)

type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// LineItem is one priced product row extracted from a document. All fields
// except Confidence are optional: the extractor never invents values it did
// not see.
type LineItem struct {
	PartNumber  *string          `json:"part_number,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TotalPrice  *decimal.Decimal `json:"total_price,omitempty"`
	Confidence  ConfidenceLevel  `json:"confidence"`
}

// EffectiveTotal returns the stated total price, or quantity*unitPrice when
// the total is absent but both factors are present.
func (li LineItem) EffectiveTotal() *decimal.Decimal {
	if li.TotalPrice != nil {
		return li.TotalPrice
	}
	if li.Quantity == nil || li.UnitPrice == nil {
		return nil
	}
	total := li.UnitPrice.Mul(decimal.NewFromInt(int64(*li.Quantity)))
	return &total
}

// ExtractedRecord is the structured result of running the heuristic
// extractors over one document's text. Confidence is derived from the
// populated-field ratio and must be recomputed after any edit.
type ExtractedRecord struct {
	Kind             DocumentKind    `json:"kind"`
	IdentifierNumber *string         `json:"identifier_number,omitempty"`
	CustomerName     *string         `json:"customer_name,omitempty"`
	CustomerCode     *string         `json:"customer_code,omitempty"`
	EffectiveDate    *string         `json:"effective_date,omitempty"`
	PaymentTerms     *string         `json:"payment_terms,omitempty"`
	DeliveryTerms    *string         `json:"delivery_terms,omitempty"`
	WarrantyTerms    *string         `json:"warranty_terms,omitempty"`
	LineItems        []LineItem      `json:"line_items"`
	Confidence       ConfidenceLevel `json:"confidence"`
}

// Document is the stored envelope around an uploaded file and, once
// extraction has run, its ExtractedRecord.
type Document struct {
	ID          string           `json:"id"`
	Filename    string           `json:"filename"`
	Kind        DocumentKind     `json:"kind"`
	StoragePath string           `json:"storage_path"`
	Status      DocumentStatus   `json:"status"`
	Error       string           `json:"error,omitempty"`
	Record      *ExtractedRecord `json:"record,omitempty"`
	UploadedBy  string           `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
