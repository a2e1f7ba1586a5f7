package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FieldRules holds the ordered keyword lists used to locate labeled fields in
// document text. Keyword order is priority order: within a line, the first
// keyword that appears wins. The tables are data, not code, so new document
// layouts can be supported without touching the comparator.
type FieldRules struct {
	PONumber      []string `yaml:"po_number"`
	QuoteNumber   []string `yaml:"quote_number"`
	CustomerName  []string `yaml:"customer_name"`
	CustomerCode  []string `yaml:"customer_code"`
	PaymentTerms  []string `yaml:"payment_terms"`
	DeliveryTerms []string `yaml:"delivery_terms"`
	WarrantyTerms []string `yaml:"warranty_terms"`
}

func DefaultRules() FieldRules {
	return FieldRules{
		PONumber:      []string{"po number", "purchase order", "p.o.", "po#", "po:", "order number"},
		QuoteNumber:   []string{"quote number", "quotation", "quote#", "quote:", "qt#"},
		CustomerName:  []string{"customer", "bill to", "vendor", "company"},
		CustomerCode:  []string{"customer code", "vendor code", "code"},
		PaymentTerms:  []string{"payment terms", "payment", "terms"},
		DeliveryTerms: []string{"delivery terms", "delivery", "shipping", "incoterms"},
		WarrantyTerms: []string{"warranty", "guarantee"},
	}
}

// LoadRules reads a YAML rule table from path. Lists absent from the file
// fall back to the built-in defaults, so a partial override file is valid.
func LoadRules(path string) (FieldRules, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return FieldRules{}, fmt.Errorf("read rules file: %w", err)
	}

	var rules FieldRules
	if err := yaml.Unmarshal(raw, &rules); err != nil {
		return FieldRules{}, fmt.Errorf("parse rules yaml: %w", err)
	}
	return rules.withDefaults(), nil
}

func (r FieldRules) withDefaults() FieldRules {
	def := DefaultRules()
	out := r
	if len(out.PONumber) == 0 {
		out.PONumber = def.PONumber
	}
	if len(out.QuoteNumber) == 0 {
		out.QuoteNumber = def.QuoteNumber
	}
	if len(out.CustomerName) == 0 {
		out.CustomerName = def.CustomerName
	}
	if len(out.CustomerCode) == 0 {
		out.CustomerCode = def.CustomerCode
	}
	if len(out.PaymentTerms) == 0 {
		out.PaymentTerms = def.PaymentTerms
	}
	if len(out.DeliveryTerms) == 0 {
		out.DeliveryTerms = def.DeliveryTerms
	}
	if len(out.WarrantyTerms) == 0 {
		out.WarrantyTerms = def.WarrantyTerms
	}
	return out
}
