// Package memory keeps records in process memory. It is the default
// repository; everything is lost on restart.
package memory

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

type VerificationRepository struct {
	mu       sync.RWMutex
	byTenant map[string][]domain.Record // newest first
}

func NewVerificationRepository() *VerificationRepository {
	return &VerificationRepository{byTenant: make(map[string][]domain.Record)}
}

// Save inserts at the front. A record id already stored is ignored.
func (r *VerificationRepository) Save(_ context.Context, rec *domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byTenant[rec.TenantID]
	for _, existing := range list {
		if existing.ID == rec.ID {
			return nil
		}
	}
	next := make([]domain.Record, 0, len(list)+1)
	next = append(next, rec.Clone())
	r.byTenant[rec.TenantID] = append(next, list...)
	return nil
}

func (r *VerificationRepository) Get(_ context.Context, tenant string, id domain.RecordID) (*domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.byTenant[tenant] {
		if rec.ID == id {
			cp := rec.Clone()
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *VerificationRepository) Paginate(_ context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)

	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.byTenant[tenant]
	total := int64(len(list))

	out := domain.PaginatedResult{
		Data:       []*domain.Record{},
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: domain.TotalPages(total, pageSize),
	}
	start := (page - 1) * pageSize
	if start >= len(list) {
		return out, nil
	}
	end := min(start+pageSize, len(list))
	for _, rec := range list[start:end] {
		cp := rec.Clone()
		out.Data = append(out.Data, &cp)
	}
	return out, nil
}

// Check implements middleware.HealthChecker.
func (r *VerificationRepository) Check(context.Context) error { return nil }
