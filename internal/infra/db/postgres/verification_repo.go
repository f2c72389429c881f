package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

type VerificationRepository struct{ db *sql.DB }

func NewVerificationRepository(db *sql.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

const selectColumns = `id, tenant_id, kind, content, status, confidence, sources_json, analysis, report_url, created_at`

// Save inserts a record; records are immutable so conflicts are ignored.
func (r *VerificationRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO news_verifications
  (id, tenant_id, kind, content, status, confidence, sources_json, analysis, report_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO NOTHING;`

	sources := rec.Sources
	if sources == nil {
		sources = []string{}
	}
	b, err := json.Marshal(sources)
	if err != nil {
		return fmt.Errorf("encode sources: %w", err)
	}
	tenant := rec.TenantID
	if strings.TrimSpace(tenant) == "" {
		tenant = "-"
	}
	createdAt := rec.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		string(rec.ID), tenant, string(rec.Kind), rec.Content, string(rec.Status),
		rec.Confidence, string(b), rec.Analysis, rec.ReportURL, createdAt,
	)
	return err
}

// Get by ID + Tenant
func (r *VerificationRepository) Get(ctx context.Context, tenant string, id domain.RecordID) (*domain.Record, error) {
	q := `SELECT ` + selectColumns + ` FROM news_verifications WHERE tenant_id=$1 AND id=$2 LIMIT 1;`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, tenant, string(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return rec, err
}

// Paginate returns a page of records ordered by created_at desc
func (r *VerificationRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	offset := (page - 1) * pageSize

	q := `SELECT ` + selectColumns + `, COUNT(*) OVER() AS total
FROM news_verifications
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var total int64
	out := []*domain.Record{}
	for rows.Next() {
		var rec domain.Record
		var sources string
		if err := rows.Scan(
			&rec.ID, &rec.TenantID, &rec.Kind, &rec.Content, &rec.Status, &rec.Confidence,
			&sources, &rec.Analysis, &rec.ReportURL, &rec.Timestamp, &total,
		); err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("scanning row: %w", err)
		}
		rec.Sources = decodeSources(sources)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedResult{}, fmt.Errorf("iterating rows: %w", err)
	}

	// page beyond the end has no rows to carry the window count
	if len(out) == 0 && page > 1 {
		if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM news_verifications WHERE tenant_id=$1`, tenant).Scan(&total); err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("getting total count: %w", err)
		}
	}

	return domain.PaginatedResult{
		Data:       out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: domain.TotalPages(total, pageSize),
	}, nil
}

func scanRecord(row *sql.Row) (*domain.Record, error) {
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

func decodeSources(raw string) []string {
	var out []string
	if json.Unmarshal([]byte(raw), &out) != nil || out == nil {
		return []string{}
	}
	return out
}
