package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"github.com/quotelens/quotelens/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083001)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	kind TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT,
	uploaded_by TEXT,
	record_present BOOLEAN NOT NULL DEFAULT FALSE,
	identifier_number TEXT,
	customer_name TEXT,
	customer_code TEXT,
	effective_date TEXT,
	payment_terms TEXT,
	delivery_terms TEXT,
	warranty_terms TEXT,
	confidence TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS document_line_items (
	document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	part_number TEXT,
	description TEXT,
	quantity INTEGER,
	unit_price NUMERIC(18,4),
	total_price NUMERIC(18,4),
	confidence TEXT NOT NULL,
	PRIMARY KEY (document_id, position)
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, filename, kind, storage_path, status, error_message, uploaded_by, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`,
		doc.ID, doc.Filename, string(doc.Kind), doc.StoragePath, string(doc.Status),
		doc.Error, doc.UploadedBy, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, kind, storage_path, status, error_message, uploaded_by, record_present,
	identifier_number, customer_name, customer_code, effective_date,
	payment_terms, delivery_terms, warranty_terms, confidence,
	created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	var doc domain.Document
	var kind, status string
	var errMessage, uploadedBy sql.NullString
	var recordPresent bool
	var identifier, customerName, customerCode, effectiveDate sql.NullString
	var paymentTerms, deliveryTerms, warrantyTerms, confidence sql.NullString

	err := row.Scan(
		&doc.ID, &doc.Filename, &kind, &doc.StoragePath, &status, &errMessage, &uploadedBy, &recordPresent,
		&identifier, &customerName, &customerCode, &effectiveDate,
		&paymentTerms, &deliveryTerms, &warrantyTerms, &confidence,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get document", fmt.Errorf("document %s", id))
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.Kind = domain.DocumentKind(kind)
	doc.Status = domain.DocumentStatus(status)
	doc.Error = errMessage.String
	doc.UploadedBy = uploadedBy.String

	if recordPresent {
		items, err := r.loadLineItems(ctx, id)
		if err != nil {
			return nil, err
		}
		doc.Record = &domain.ExtractedRecord{
			Kind:             doc.Kind,
			IdentifierNumber: nullableString(identifier),
			CustomerName:     nullableString(customerName),
			CustomerCode:     nullableString(customerCode),
			EffectiveDate:    nullableString(effectiveDate),
			PaymentTerms:     nullableString(paymentTerms),
			DeliveryTerms:    nullableString(deliveryTerms),
			WarrantyTerms:    nullableString(warrantyTerms),
			LineItems:        items,
			Confidence:       domain.ConfidenceLevel(confidence.String),
		}
	}
	return &doc, nil
}

func (r *DocumentRepository) loadLineItems(ctx context.Context, documentID string) ([]domain.LineItem, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT part_number, description, quantity, unit_price, total_price, confidence
FROM document_line_items
WHERE document_id = $1
ORDER BY position
`, documentID)
	if err != nil {
		return nil, fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.LineItem, 0)
	for rows.Next() {
		var partNumber, description, confidence sql.NullString
		var quantity sql.NullInt64
		var unitPrice, totalPrice sql.NullString

		if err := rows.Scan(&partNumber, &description, &quantity, &unitPrice, &totalPrice, &confidence); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}

		item := domain.LineItem{
			PartNumber:  nullableString(partNumber),
			Description: nullableString(description),
			Confidence:  domain.ConfidenceLevel(confidence.String),
		}
		if quantity.Valid {
			qty := int(quantity.Int64)
			item.Quantity = &qty
		}
		if item.UnitPrice, err = nullableDecimal(unitPrice); err != nil {
			return nil, fmt.Errorf("parse unit price: %w", err)
		}
		if item.TotalPrice, err = nullableDecimal(totalPrice); err != nil {
			return nil, fmt.Errorf("parse total price: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line items: %w", err)
	}
	return items, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document status: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "update document status", fmt.Errorf("document %s", id))
	}
	return nil
}

func (r *DocumentRepository) SaveRecord(ctx context.Context, id string, record *domain.ExtractedRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
UPDATE documents
SET record_present = TRUE,
	identifier_number = $2, customer_name = $3, customer_code = $4, effective_date = $5,
	payment_terms = $6, delivery_terms = $7, warranty_terms = $8, confidence = $9,
	updated_at = $10
WHERE id = $1
`,
		id, record.IdentifierNumber, record.CustomerName, record.CustomerCode, record.EffectiveDate,
		record.PaymentTerms, record.DeliveryTerms, record.WarrantyTerms, string(record.Confidence),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update record fields: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update record fields: rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "save record", fmt.Errorf("document %s", id))
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_line_items WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("clear line items: %w", err)
	}

	for position, item := range record.LineItems {
		_, err := tx.ExecContext(ctx, `
INSERT INTO document_line_items (
	document_id, position, part_number, description, quantity, unit_price, total_price, confidence
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
`,
			id, position, item.PartNumber, item.Description, item.Quantity,
			decimalString(item.UnitPrice), decimalString(item.TotalPrice), string(item.Confidence),
		)
		if err != nil {
			return fmt.Errorf("insert line item %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit record tx: %w", err)
	}
	return nil
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullableDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func decimalString(v *decimal.Decimal) any {
	if v == nil {
		return nil
	}
	return v.String()
}
