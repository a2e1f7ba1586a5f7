package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/quotelens/quotelens/internal/core/domain"
)

func newAnalysisRepoWithMock(t *testing.T) (*AnalysisRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &AnalysisRepository{db: db}, mock, func() { _ = db.Close() }
}

func sampleReport(t *testing.T) ([]byte, domain.ComparisonReport) {
	t.Helper()
	report := domain.ComparisonReport{
		LineItems: []domain.LineItemResult{{
			POItem: domain.LineItem{PartNumber: strPtr("CV-2400"), Confidence: domain.ConfidenceMedium},
			Status: domain.StatusMismatched,
			Issues: []string{domain.IssuePartNotFound},
		}},
		Summary: domain.Summary{
			MismatchedCount: 1,
			Recommendation:  domain.RecommendAmend,
			AmendmentNotes:  []string{"1 line items require price/quantity adjustments"},
		},
	}
	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	return raw, report
}

func TestAnalysisGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, po_document_id, quote_document_id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAnalysisGetByIDUnmarshalsReport(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	raw, want := sampleReport(t)
	columns := []string{"id", "po_document_id", "quote_document_id", "report", "created_by", "created_at"}
	mock.ExpectQuery("SELECT id, po_document_id, quote_document_id").
		WithArgs("a-1").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"a-1", "po-1", "quote-1", raw, "user-1", time.Now().UTC(),
		))

	analysis, err := repo.GetByID(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if analysis.PODocumentID != "po-1" || analysis.QuoteDocumentID != "quote-1" {
		t.Fatalf("document ids: %+v", analysis)
	}
	if analysis.Report.Summary.Recommendation != want.Summary.Recommendation {
		t.Fatalf("recommendation = %s", analysis.Report.Summary.Recommendation)
	}
	if len(analysis.Report.LineItems) != 1 || analysis.Report.LineItems[0].Status != domain.StatusMismatched {
		t.Fatalf("line item results: %+v", analysis.Report.LineItems)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestAnalysisListPassesPagination(t *testing.T) {
	repo, mock, done := newAnalysisRepoWithMock(t)
	defer done()

	raw, _ := sampleReport(t)
	columns := []string{"id", "po_document_id", "quote_document_id", "report", "created_by", "created_at"}
	mock.ExpectQuery("SELECT id, po_document_id, quote_document_id").
		WithArgs(20, 40).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			"a-1", "po-1", "quote-1", raw, nil, time.Now().UTC(),
		))

	analyses, err := repo.List(context.Background(), 20, 40)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(analyses) != 1 || analyses[0].ID != "a-1" {
		t.Fatalf("analyses: %+v", analyses)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
