package export

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/quotelens/quotelens/internal/core/domain"
)

// XLSX renders the analysis report as a workbook with one sheet per report
// section.
func XLSX(analysis *domain.Analysis) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeLineItemSheet(f, analysis.Report.LineItems); err != nil {
		return nil, err
	}
	if err := writeTermSheet(f, analysis.Report.Terms); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, analysis); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by our first one.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("xlsx delete default sheet: %w", err)
	}
	index, err := f.GetSheetIndex("Line Items")
	if err != nil {
		return nil, fmt.Errorf("xlsx sheet index: %w", err)
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeLineItemSheet(f *excelize.File, results []domain.LineItemResult) error {
	const sheet = "Line Items"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx new sheet: %w", err)
	}

	headers := []string{
		"PO Part Number", "PO Qty", "PO Unit Price",
		"Quote Part Number", "Quote Qty", "Quote Unit Price",
		"Status", "Variance %", "Issues",
	}
	writeHeaders(f, sheet, headers)

	for i, result := range results {
		row := i + 2
		write(f, sheet, 1, row, strOrEmpty(result.POItem.PartNumber))
		write(f, sheet, 2, row, intOrEmpty(result.POItem.Quantity))
		write(f, sheet, 3, row, decOrEmpty(result.POItem.UnitPrice))
		if result.QuoteItem != nil {
			write(f, sheet, 4, row, strOrEmpty(result.QuoteItem.PartNumber))
			write(f, sheet, 5, row, intOrEmpty(result.QuoteItem.Quantity))
			write(f, sheet, 6, row, decOrEmpty(result.QuoteItem.UnitPrice))
		}
		write(f, sheet, 7, row, string(result.Status))
		write(f, sheet, 8, row, decOrEmpty(result.PriceVariancePercent))
		write(f, sheet, 9, row, joinIssues(result.Issues))
	}

	_ = f.SetColWidth(sheet, "A", "F", 18)
	_ = f.SetColWidth(sheet, "G", "G", 16)
	_ = f.SetColWidth(sheet, "I", "I", 48)
	return nil
}

func writeTermSheet(f *excelize.File, terms []domain.TermResult) error {
	const sheet = "Terms"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx new sheet: %w", err)
	}

	writeHeaders(f, sheet, []string{"Category", "PO Value", "Quote Value", "Status", "Risk"})

	for i, term := range terms {
		row := i + 2
		write(f, sheet, 1, row, string(term.Category))
		write(f, sheet, 2, row, term.POValue)
		write(f, sheet, 3, row, term.QuoteValue)
		write(f, sheet, 4, row, string(term.Status))
		write(f, sheet, 5, row, string(term.Risk))
	}

	_ = f.SetColWidth(sheet, "A", "C", 24)
	return nil
}

func writeSummarySheet(f *excelize.File, analysis *domain.Analysis) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("xlsx new sheet: %w", err)
	}

	summary := analysis.Report.Summary
	rows := [][2]any{
		{"Analysis ID", analysis.ID},
		{"PO Document", analysis.PODocumentID},
		{"Quote Document", analysis.QuoteDocumentID},
		{"Created At", analysis.CreatedAt.UTC().Format("2006-01-02 15:04:05")},
		{"Matched Items", summary.MatchedCount},
		{"Mismatched Items", summary.MismatchedCount},
		{"Recommendation", string(summary.Recommendation)},
	}
	for i, pair := range rows {
		write(f, sheet, 1, i+1, pair[0])
		write(f, sheet, 2, i+1, pair[1])
	}

	noteRow := len(rows) + 2
	for i, note := range summary.AmendmentNotes {
		write(f, sheet, 1, noteRow+i, "Amendment")
		write(f, sheet, 2, noteRow+i, note)
	}

	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	return nil
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		write(f, sheet, i+1, 1, h)
	}
}

func write(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func intOrEmpty(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}

func decOrEmpty(v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func joinIssues(issues []string) string {
	out := ""
	for i, issue := range issues {
		if i > 0 {
			out += "; "
		}
		out += issue
	}
	return out
}
