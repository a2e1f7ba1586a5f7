package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/quotelens/quotelens/internal/core/domain"
)

// Reader decodes an uploaded document into linear text. PDF files are read
// page by page in order and concatenated into one buffer; anything else is
// accepted as plain UTF-8 text.
type Reader struct{}

func NewReader() *Reader {
	return &Reader{}
}

func (r *Reader) Extract(ctx context.Context, filename string, data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return r.pdfText(ctx, filename, data)
	}

	if !utf8.Valid(data) {
		return "", domain.WrapError(
			domain.ErrExtractionFailed,
			"decode document",
			fmt.Errorf("unsupported binary format: %s", filename),
		)
	}
	return strings.TrimSpace(string(data)), nil
}

func (r *Reader) pdfText(ctx context.Context, filename string, data []byte) (text string, err error) {
	// The pdf package panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			err = domain.WrapError(
				domain.ErrExtractionFailed,
				"parse pdf",
				fmt.Errorf("%s: %v", filename, rec),
			)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "parse pdf", fmt.Errorf("%s: %w", filename, err))
	}

	var buf strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return "", domain.WrapError(domain.ErrExtractionFailed, "parse pdf", err)
		}

		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", domain.WrapError(
				domain.ErrExtractionFailed,
				"parse pdf",
				fmt.Errorf("%s page %d: %w", filename, pageNum, err),
			)
		}
		buf.WriteString(pageText)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String()), nil
}
