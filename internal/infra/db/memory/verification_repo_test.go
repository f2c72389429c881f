package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

func rec(tenant string, i int) *domain.Record {
	return &domain.Record{
		ID:        domain.RecordID(fmt.Sprintf("r%d", i)),
		TenantID:  tenant,
		Content:   fmt.Sprintf("c%d", i),
		Status:    domain.StatusAuthentic,
		Sources:   []string{"s"},
		Timestamp: time.Unix(int64(i), 0),
	}
}

func TestRepository_SaveAndPaginate(t *testing.T) {
	ctx := context.Background()
	repo := NewVerificationRepository()
	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Save(ctx, rec("a", i)))
	}
	require.NoError(t, repo.Save(ctx, rec("b", 9)))

	res, err := repo.Paginate(ctx, "a", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), res.Total)
	assert.Equal(t, 3, res.TotalPages)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "c5", res.Data[0].Content)
	assert.Equal(t, "c4", res.Data[1].Content)

	res, err = repo.Paginate(ctx, "a", 3, 2)
	require.NoError(t, err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, "c1", res.Data[0].Content)

	res, err = repo.Paginate(ctx, "a", 9, 2)
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.NotNil(t, res.Data)
}

func TestRepository_DuplicateIDIgnored(t *testing.T) {
	ctx := context.Background()
	repo := NewVerificationRepository()
	r := rec("a", 1)
	require.NoError(t, repo.Save(ctx, r))
	r.Content = "changed"
	require.NoError(t, repo.Save(ctx, r))

	got, err := repo.Get(ctx, "a", "r1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.Content)
}

func TestRepository_GetIsolatedCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewVerificationRepository()
	require.NoError(t, repo.Save(ctx, rec("a", 1)))

	got, err := repo.Get(ctx, "a", "r1")
	require.NoError(t, err)
	got.Sources[0] = "mutated"

	again, err := repo.Get(ctx, "a", "r1")
	require.NoError(t, err)
	assert.Equal(t, "s", again.Sources[0])

	_, err = repo.Get(ctx, "b", "r1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
