package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/quotelens/quotelens/internal/core/domain"
	"github.com/quotelens/quotelens/internal/core/extract"
	"github.com/quotelens/quotelens/internal/core/ports"
)

// ValidateRecordUseCase applies a human-reviewed record to an extracted
// document. Edits can only land on documents that already went through
// extraction; the confidence level is recomputed from the edited fields
// rather than trusted from the client.
type ValidateRecordUseCase struct {
	repo      ports.DocumentRepository
	extractor *extract.Extractor
}

func NewValidateRecordUseCase(repo ports.DocumentRepository, extractor *extract.Extractor) *ValidateRecordUseCase {
	return &ValidateRecordUseCase{repo: repo, extractor: extractor}
}

func (uc *ValidateRecordUseCase) SubmitValidated(
	ctx context.Context,
	documentID string,
	record *domain.ExtractedRecord,
) (*domain.Document, error) {
	if record == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit validated record", errors.New("nil record"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	switch doc.Status {
	case domain.StatusExtracted, domain.StatusValidated:
	default:
		return nil, domain.WrapError(
			domain.ErrInvalidState,
			"submit validated record",
			fmt.Errorf("document %s has status %s", doc.ID, doc.Status),
		)
	}

	// The record kind is pinned at upload time; edits cannot flip a PO
	// into a quote.
	record.Kind = doc.Kind
	uc.extractor.Rescore(record)

	if err := uc.repo.SaveRecord(ctx, documentID, record); err != nil {
		return nil, fmt.Errorf("save validated record: %w", err)
	}
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusValidated, ""); err != nil {
		return nil, fmt.Errorf("set status=validated: %w", err)
	}

	doc.Record = record
	doc.Status = domain.StatusValidated
	doc.Error = ""
	return doc, nil
}
