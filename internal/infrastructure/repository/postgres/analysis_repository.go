package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/quotelens/quotelens/internal/core/domain"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083002)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	po_document_id TEXT NOT NULL REFERENCES documents(id),
	quote_document_id TEXT NOT NULL REFERENCES documents(id),
	report JSONB NOT NULL,
	created_by TEXT,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) Create(ctx context.Context, analysis *domain.Analysis) error {
	reportJSON, err := json.Marshal(analysis.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO analyses (id, po_document_id, quote_document_id, report, created_by, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
`,
		analysis.ID, analysis.PODocumentID, analysis.QuoteDocumentID, reportJSON,
		analysis.CreatedBy, analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id string) (*domain.Analysis, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, po_document_id, quote_document_id, report, created_by, created_at
FROM analyses
WHERE id = $1
`, id)

	analysis, err := scanAnalysis(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get analysis", fmt.Errorf("analysis %s", id))
		}
		return nil, err
	}
	return analysis, nil
}

func (r *AnalysisRepository) List(ctx context.Context, limit, offset int) ([]*domain.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, po_document_id, quote_document_id, report, created_by, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	analyses := make([]*domain.Analysis, 0)
	for rows.Next() {
		analysis, err := scanAnalysis(rows.Scan)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return analyses, nil
}

func scanAnalysis(scan func(dest ...any) error) (*domain.Analysis, error) {
	var analysis domain.Analysis
	var reportRaw []byte
	var createdBy sql.NullString

	err := scan(
		&analysis.ID, &analysis.PODocumentID, &analysis.QuoteDocumentID,
		&reportRaw, &createdBy, &analysis.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	if err := json.Unmarshal(reportRaw, &analysis.Report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}
	analysis.CreatedBy = createdBy.String
	return &analysis, nil
}
