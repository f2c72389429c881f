package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

type VerificationRepository struct {
	db *sql.DB
}

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

const selectColumns = `id, tenant_id, kind, content, status, confidence, sources_json, analysis, report_url, created_at`

// Save inserts a record. Records are immutable, so a duplicate id is left as is.
func (r *VerificationRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT IGNORE INTO news_verifications
  (id, tenant_id, kind, content, status, confidence, sources_json, analysis, report_url, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?);
`
	sources, err := encodeSources(rec.Sources)
	if err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}
	createdAt := rec.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		rec.ID, stringOrDash(rec.TenantID), string(rec.Kind), rec.Content, string(rec.Status),
		rec.Confidence, sources, rec.Analysis, rec.ReportURL, createdAt,
	)
	return err
}

// Get by ID + Tenant
func (r *VerificationRepository) Get(ctx context.Context, tenant string, id domain.RecordID) (*domain.Record, error) {
	q := `SELECT ` + selectColumns + ` FROM news_verifications WHERE tenant_id=? AND id=? LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, tenant, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// Paginate returns a page of records ordered by created_at desc
func (r *VerificationRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	q := `SELECT ` + selectColumns + `
FROM news_verifications
WHERE tenant_id=?
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	out := []*domain.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news_verifications WHERE tenant_id=?`, tenant).Scan(&total); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedResult{
		Data:       out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: domain.TotalPages(total, pageSize),
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var sources string
	if err := row.Scan(
		&rec.ID, &rec.TenantID, &rec.Kind, &rec.Content, &rec.Status, &rec.Confidence,
		&sources, &rec.Analysis, &rec.ReportURL, &rec.Timestamp,
	); err != nil {
		return nil, err
	}
	rec.Sources = decodeSources(sources)
	return &rec, nil
}
