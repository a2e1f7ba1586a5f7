package export

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/quotelens/quotelens/internal/core/domain"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// Filename builds the download name for an exported analysis, e.g.
// po_quote_analysis_2024-04-24.json.
func Filename(format string, now time.Time) string {
	return fmt.Sprintf("po_quote_analysis_%s.%s", now.UTC().Format("2006-01-02"), format)
}

// JSON renders the full analysis as pretty-printed JSON.
func JSON(analysis *domain.Analysis) ([]byte, error) {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}
	return data, nil
}
