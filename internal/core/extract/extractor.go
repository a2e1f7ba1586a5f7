package extract

import "github.com/quotelens/quotelens/internal/core/domain"

// Extractor turns decoded document text into an ExtractedRecord using the
// configured keyword rule tables. It is a pure function of its inputs: absent
// fields stay nil and no extraction outcome is an error.
type Extractor struct {
	rules FieldRules
}

func NewExtractor(rules FieldRules) *Extractor {
	return &Extractor{rules: rules.withDefaults()}
}

func (e *Extractor) Extract(text string, kind domain.DocumentKind) *domain.ExtractedRecord {
	rec := &domain.ExtractedRecord{Kind: kind}

	if kind == domain.KindPurchaseOrder {
		rec.IdentifierNumber = Field(text, e.rules.PONumber)
	} else {
		rec.IdentifierNumber = Field(text, e.rules.QuoteNumber)
	}

	rec.CustomerName = Field(text, e.rules.CustomerName)
	rec.CustomerCode = Field(text, e.rules.CustomerCode)
	rec.EffectiveDate = DateField(text)
	rec.PaymentTerms = Field(text, e.rules.PaymentTerms)
	rec.DeliveryTerms = Field(text, e.rules.DeliveryTerms)
	rec.WarrantyTerms = Field(text, e.rules.WarrantyTerms)
	rec.LineItems = LineItems(text)
	rec.Confidence = Score(*rec)

	return rec
}

// Rescore recomputes the record's confidence in place, keeping it consistent
// with the current field state.
func (e *Extractor) Rescore(rec *domain.ExtractedRecord) {
	rec.Confidence = Score(*rec)
}
