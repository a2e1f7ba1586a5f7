package ports

import (
	"context"
	"io"

	"github.com/quotelens/quotelens/internal/core/domain"
)

// DocumentIngestor accepts an uploaded source document, persists it and
// schedules extraction.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename string, kind domain.DocumentKind, uploadedBy string, body io.Reader) (*domain.Document, error)
}

// DocumentReader exposes stored documents to the transport layer.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor runs extraction for a previously uploaded document. The
// worker invokes it for every queued document id.
type DocumentProcessor interface {
	ExtractByID(ctx context.Context, id string) error
}

// RecordValidator applies a human-reviewed record to an extracted document
// and advances it to validated.
type RecordValidator interface {
	SubmitValidated(ctx context.Context, id string, record *domain.ExtractedRecord) (*domain.Document, error)
}

// AnalysisRunner compares a validated purchase order against a validated
// quote and persists the resulting report.
type AnalysisRunner interface {
	Analyze(ctx context.Context, poDocumentID, quoteDocumentID, requestedBy string) (*domain.Analysis, error)
}

// AnalysisReader exposes stored analyses to the transport layer.
type AnalysisReader interface {
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Analysis, error)
}
