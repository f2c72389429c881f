package verification

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, tenant string, id RecordID) (*Record, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) (PaginatedResult, error)
}

// ReportStore port (interface untuk arsip laporan)
type ReportStore interface {
	Put(ctx context.Context, key string, r *Record) (string, error)
}

// ContentFetcher resolves a submitted URL into the text that gets classified.
type ContentFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}
