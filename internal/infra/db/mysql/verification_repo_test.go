package mysql

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

var columns = []string{"id", "tenant_id", "kind", "content", "status", "confidence", "sources_json", "analysis", "report_url", "created_at"}

func newMock(t *testing.T) (*VerificationRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewVerificationRepository(db), mock
}

func TestSave(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec := &domain.Record{
		ID: "rec-1", TenantID: "acme", Kind: domain.KindText, Content: "hello",
		Status: domain.StatusAuthentic, Confidence: 77, Sources: []string{"AP"},
		Analysis: "fine", Timestamp: at,
	}

	mock.ExpectExec("INSERT IGNORE INTO news_verifications").
		WithArgs("rec-1", "acme", "text", "hello", "real", 77, `["AP"]`, "fine", "", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), rec))
}

func TestSave_EmptyTenantAndNilSources(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("INSERT IGNORE INTO news_verifications").
		WithArgs("rec-2", "-", "url", sqlmock.AnyArg(), "fake", 90, `[]`, "", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), &domain.Record{
		ID: "rec-2", Kind: domain.KindURL, Content: "Content from: x", Status: domain.StatusFabricated, Confidence: 90,
	}))
}

func TestGet(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM news_verifications WHERE tenant_id=\? AND id=\?`).
		WithArgs("acme", "rec-1").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("rec-1", "acme", "text", "hello", "real", 77, `["AP","BBC"]`, "fine", "", at))

	rec, err := repo.Get(context.Background(), "acme", "rec-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RecordID("rec-1"), rec.ID)
	assert.Equal(t, domain.StatusAuthentic, rec.Status)
	assert.Equal(t, []string{"AP", "BBC"}, rec.Sources)
	assert.Equal(t, at, rec.Timestamp)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(`FROM news_verifications`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "acme", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaginate(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC\s+LIMIT \? OFFSET \?`).
		WithArgs("acme", 2, 2).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("rec-3", "acme", "text", "c", "fake", 61, `not json`, "a", "", at))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM news_verifications WHERE tenant_id=\?`).
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	res, err := repo.Paginate(context.Background(), "acme", 2, 2)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, []string{}, res.Data[0].Sources, "unreadable sources decode to empty")
	assert.EqualValues(t, 5, res.Total)
	assert.Equal(t, 3, res.TotalPages)
}
