package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/quotelens/quotelens/internal/core/domain"
	"github.com/quotelens/quotelens/internal/core/extract"
	"github.com/quotelens/quotelens/internal/core/ports"
)

type ExtractDocumentUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	text      ports.TextSource
	extractor *extract.Extractor
}

func NewExtractDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	text ports.TextSource,
	extractor *extract.Extractor,
) *ExtractDocumentUseCase {
	return &ExtractDocumentUseCase{
		repo:      repo,
		storage:   storage,
		text:      text,
		extractor: extractor,
	}
}

func (uc *ExtractDocumentUseCase) ExtractByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusExtracting, ""); err != nil {
		return fmt.Errorf("set status=extracting: %w", err)
	}

	record, err := uc.extractPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveRecord(ctx, documentID, record); err != nil {
		saveErr := fmt.Errorf("save extracted record: %w", err)
		if failErr := uc.markFailed(ctx, documentID, saveErr); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", saveErr, failErr)
		}
		return saveErr
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusExtracted, ""); err != nil {
		return fmt.Errorf("set status=extracted: %w", err)
	}

	return nil
}

func (uc *ExtractDocumentUseCase) extractPipeline(ctx context.Context, documentID string) (*domain.ExtractedRecord, error) {
	doc, err := uc.loadDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	data, err := uc.readFile(ctx, doc)
	if err != nil {
		return nil, err
	}

	text, err := uc.toText(ctx, doc, data)
	if err != nil {
		return nil, err
	}

	return uc.extractor.Extract(text, doc.Kind), nil
}

func (uc *ExtractDocumentUseCase) loadDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	return doc, nil
}

func (uc *ExtractDocumentUseCase) readFile(ctx context.Context, doc *domain.Document) ([]byte, error) {
	rc, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read stored file: %w", err)
	}
	if len(data) == 0 {
		return nil, domain.WrapError(domain.ErrExtractionFailed, "read stored file", errors.New("empty file"))
	}
	return data, nil
}

func (uc *ExtractDocumentUseCase) toText(ctx context.Context, doc *domain.Document, data []byte) (string, error) {
	text, err := uc.text.Extract(ctx, doc.Filename, data)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract text", err)
	}
	if text == "" {
		return "", domain.WrapError(domain.ErrExtractionFailed, "extract text", errors.New("empty extracted text"))
	}
	return text, nil
}

func (uc *ExtractDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ExtractDocumentUseCase) markFailed(ctx context.Context, documentID string, extractErr error) error {
	if extractErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, extractErr.Error())
}
