package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quotelens/quotelens/internal/core/compare"
	"github.com/quotelens/quotelens/internal/core/domain"
	"github.com/quotelens/quotelens/internal/core/ports"
)

type AnalyzeUseCase struct {
	documents  ports.DocumentRepository
	analyses   ports.AnalysisRepository
	comparator *compare.Comparator
}

func NewAnalyzeUseCase(
	documents ports.DocumentRepository,
	analyses ports.AnalysisRepository,
	comparator *compare.Comparator,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		documents:  documents,
		analyses:   analyses,
		comparator: comparator,
	}
}

func (uc *AnalyzeUseCase) Analyze(
	ctx context.Context,
	poDocumentID, quoteDocumentID, requestedBy string,
) (*domain.Analysis, error) {
	var po, quote *domain.Document

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		po, err = uc.loadValidated(gctx, poDocumentID, domain.KindPurchaseOrder)
		return err
	})
	g.Go(func() error {
		var err error
		quote, err = uc.loadValidated(gctx, quoteDocumentID, domain.KindQuote)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := uc.comparator.Compare(po.Record, quote.Record)

	analysis := &domain.Analysis{
		ID:              uuid.NewString(),
		PODocumentID:    po.ID,
		QuoteDocumentID: quote.ID,
		Report:          report,
		CreatedBy:       requestedBy,
		CreatedAt:       time.Now().UTC(),
	}

	if err := uc.analyses.Create(ctx, analysis); err != nil {
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	return analysis, nil
}

func (uc *AnalyzeUseCase) loadValidated(ctx context.Context, documentID string, kind domain.DocumentKind) (*domain.Document, error) {
	doc, err := uc.documents.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	if doc.Kind != kind {
		return nil, domain.WrapError(
			domain.ErrInvalidInput,
			"load document for analysis",
			fmt.Errorf("document %s is a %s, expected %s", doc.ID, doc.Kind, kind),
		)
	}
	if doc.Status != domain.StatusValidated || doc.Record == nil {
		return nil, domain.WrapError(
			domain.ErrInvalidState,
			"load document for analysis",
			fmt.Errorf("document %s has status %s, analysis needs %s", doc.ID, doc.Status, domain.StatusValidated),
		)
	}
	return doc, nil
}

func (uc *AnalyzeUseCase) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	analysis, err := uc.analyses.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch analysis by id: %w", err)
	}
	return analysis, nil
}

func (uc *AnalyzeUseCase) List(ctx context.Context, limit, offset int) ([]*domain.Analysis, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	analyses, err := uc.analyses.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return analyses, nil
}
