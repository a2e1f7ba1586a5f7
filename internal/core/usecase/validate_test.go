package usecase

import (
	"context"
	"testing"

	"github.com/quotelens/quotelens/internal/core/domain"
	"github.com/quotelens/quotelens/internal/core/extract"
)

func strPtr(s string) *string { return &s }

func newValidateUC(repo *docRepoFake) *ValidateRecordUseCase {
	return NewValidateRecordUseCase(repo, extract.NewExtractor(extract.DefaultRules()))
}

func TestSubmitValidatedSuccess(t *testing.T) {
	repo := &docRepoFake{doc: &domain.Document{
		ID:     "doc-1",
		Kind:   domain.KindPurchaseOrder,
		Status: domain.StatusExtracted,
	}}
	uc := newValidateUC(repo)

	record := &domain.ExtractedRecord{
		Kind:             domain.KindQuote, // client value is ignored
		IdentifierNumber: strPtr("PO-2024-117"),
		CustomerName:     strPtr("Acme Industrial"),
		EffectiveDate:    strPtr("2024-04-24"),
		LineItems:        []domain.LineItem{{PartNumber: strPtr("CV-2400"), Confidence: domain.ConfidenceMedium}},
	}

	doc, err := uc.SubmitValidated(context.Background(), "doc-1", record)
	if err != nil {
		t.Fatalf("SubmitValidated() error = %v", err)
	}
	if doc.Status != domain.StatusValidated {
		t.Fatalf("status = %s, want validated", doc.Status)
	}
	if repo.savedRecord == nil || repo.savedRecord.Kind != domain.KindPurchaseOrder {
		t.Fatalf("record kind must be pinned to the document kind, got %+v", repo.savedRecord)
	}
	if repo.savedRecord.Confidence != domain.ConfidenceHigh {
		t.Fatalf("confidence must be recomputed, got %s", repo.savedRecord.Confidence)
	}
	if len(repo.statusCalls) != 1 || repo.statusCalls[0].status != domain.StatusValidated {
		t.Fatalf("unexpected status calls: %+v", repo.statusCalls)
	}
}

func TestSubmitValidatedAllowsRevalidation(t *testing.T) {
	repo := &docRepoFake{doc: &domain.Document{
		ID:     "doc-1",
		Kind:   domain.KindQuote,
		Status: domain.StatusValidated,
	}}

	_, err := newValidateUC(repo).SubmitValidated(context.Background(), "doc-1", &domain.ExtractedRecord{})
	if err != nil {
		t.Fatalf("re-validation must be allowed, got %v", err)
	}
}

func TestSubmitValidatedRejectsUnextractedDocument(t *testing.T) {
	for _, status := range []domain.DocumentStatus{
		domain.StatusUploaded,
		domain.StatusExtracting,
		domain.StatusFailed,
	} {
		repo := &docRepoFake{doc: &domain.Document{ID: "doc-1", Status: status}}

		_, err := newValidateUC(repo).SubmitValidated(context.Background(), "doc-1", &domain.ExtractedRecord{})
		if !domain.IsKind(err, domain.ErrInvalidState) {
			t.Fatalf("status %s: expected ErrInvalidState, got %v", status, err)
		}
	}
}

func TestSubmitValidatedRejectsNilRecord(t *testing.T) {
	repo := &docRepoFake{doc: &domain.Document{ID: "doc-1", Status: domain.StatusExtracted}}

	_, err := newValidateUC(repo).SubmitValidated(context.Background(), "doc-1", nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmitValidatedNotFoundPassesThrough(t *testing.T) {
	repo := &docRepoFake{getErr: domain.ErrNotFound}

	_, err := newValidateUC(repo).SubmitValidated(context.Background(), "missing", &domain.ExtractedRecord{})
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
