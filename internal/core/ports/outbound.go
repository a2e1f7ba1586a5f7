package ports

import (
	"context"
	"io"

	"github.com/quotelens/quotelens/internal/core/domain"
)

// DocumentRepository persists document envelopes and their extracted records.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, extractionError string) error
	SaveRecord(ctx context.Context, id string, record *domain.ExtractedRecord) error
}

// AnalysisRepository persists comparison reports.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.Analysis) error
	GetByID(ctx context.Context, id string) (*domain.Analysis, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Analysis, error)
}

// ObjectStorage stores uploaded document files.
type ObjectStorage interface {
	Save(ctx context.Context, path string, body io.Reader) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// MessageQueue carries document ids from the API to the extraction worker.
type MessageQueue interface {
	PublishDocumentUploaded(ctx context.Context, documentID string) error
	SubscribeDocumentUploaded(ctx context.Context, handler func(ctx context.Context, documentID string) error) error
	Close()
}

// TextSource turns a stored document file into plain text for extraction.
type TextSource interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}
