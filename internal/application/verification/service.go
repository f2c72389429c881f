package verification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-verify/internal/application"
	"github.com/bryanwahyu/automaton-verify/internal/domain/ai"
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// DefaultTimeout bounds one classification when Dependencies.Timeout is zero.
const DefaultTimeout = 60 * time.Second

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("verification service closed")

// Recorder receives verification events for metrics.
type Recorder interface {
	Submitted(kind domain.Kind)
	Classified(status domain.Status, took time.Duration)
	Failed(took time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) Submitted(domain.Kind) {}

func (nopRecorder) Classified(domain.Status, time.Duration) {}

func (nopRecorder) Failed(time.Duration) {}

// Dependencies wires a Service. Classifier is required; Repo, Reports and
// Fetcher are optional.
type Dependencies struct {
	Classifier ai.Classifier
	Repo       domain.Repository
	Reports    domain.ReportStore
	Fetcher    domain.ContentFetcher
	Clock      application.Clock
	IDs        application.IDGenerator
	Logger     *zap.Logger
	Recorder   Recorder
	Timeout    time.Duration
}

// Service implements use-cases untuk verification.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	classifier ai.Classifier
	repo       domain.Repository
	reports    domain.ReportStore
	fetcher    domain.ContentFetcher
	clock      application.Clock
	ids        application.IDGenerator
	log        *zap.Logger
	recorder   Recorder
	timeout    time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	sessions map[string]*Session
}

// NewService builds a Service, filling defaults for optional dependencies.
func NewService(d Dependencies) *Service {
	if d.Classifier == nil {
		panic("verification: classifier is required")
	}
	if d.Clock == nil {
		d.Clock = application.SystemClock{}
	}
	if d.IDs == nil {
		d.IDs = application.UUIDGenerator{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Recorder == nil {
		d.Recorder = nopRecorder{}
	}
	if d.Timeout <= 0 {
		d.Timeout = DefaultTimeout
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		classifier: d.Classifier,
		repo:       d.Repo,
		reports:    d.Reports,
		fetcher:    d.Fetcher,
		clock:      d.Clock,
		ids:        d.IDs,
		log:        d.Logger,
		recorder:   d.Recorder,
		timeout:    d.Timeout,
		baseCtx:    ctx,
		cancel:     cancel,
		sessions:   make(map[string]*Session),
	}
}

//
// ==== USE CASES ====
//

// Session returns the session for tenant, creating it on first use.
func (s *Service) Session(tenant string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[tenant]
	if !ok {
		sess = newSession(tenant, s)
		s.sessions[tenant] = sess
	}
	return sess
}

// Submit is shorthand for Session(tenant).Submit.
func (s *Service) Submit(ctx context.Context, tenant string, req domain.Request) (State, error) {
	return s.Session(tenant).Submit(ctx, req)
}

// State returns the current state of the tenant's session.
func (s *Service) State(tenant string) State {
	return s.Session(tenant).State()
}

// History returns persisted records newest-first. Without a repository it
// pages over the in-memory session history.
func (s *Service) History(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedResult, error) {
	page, pageSize = domain.NormalizePage(page, pageSize)
	if s.repo != nil {
		res, err := s.repo.Paginate(ctx, tenant, page, pageSize)
		if err != nil {
			return domain.PaginatedResult{}, fmt.Errorf("paginate records: %w", err)
		}
		return res, nil
	}

	records := s.State(tenant).Records
	total := int64(len(records))
	out := domain.PaginatedResult{
		Data:       []*domain.Record{},
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: domain.TotalPages(total, pageSize),
	}
	start := (page - 1) * pageSize
	if start >= len(records) {
		return out, nil
	}
	end := min(start+pageSize, len(records))
	for i := start; i < end; i++ {
		r := records[i]
		out.Data = append(out.Data, &r)
	}
	return out, nil
}

// Get ambil 1 record by id
func (s *Service) Get(ctx context.Context, tenant string, id domain.RecordID) (*domain.Record, error) {
	if s.repo != nil {
		return s.repo.Get(ctx, tenant, id)
	}
	for _, r := range s.State(tenant).Records {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Tenants lists tenants with a live session, sorted.
func (s *Service) Tenants() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sessions))
	for t := range s.sessions {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Close cancels running analyses and waits for them to finish.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()

	// If ctx expires first the waiter outlives Close, but only until the
	// already cancelled runs return; each is bounded by s.timeout.
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) acquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.wg.Add(1)
	return nil
}

func (s *Service) release() { s.wg.Done() }

// analyze runs one classification and builds the resulting record.
// Archive and repository failures are logged, not returned.
func (s *Service) analyze(ctx context.Context, tenant string, req domain.Request) (domain.Record, error) {
	start := s.clock.Now()

	target := req
	if req.Kind == domain.KindURL && s.fetcher != nil {
		text, err := s.fetcher.Fetch(ctx, strings.TrimSpace(req.Content))
		switch {
		case err != nil:
			s.log.Warn("fetch url content failed, classifying url only",
				zap.String("tenant", tenant), zap.String("url", req.Content), zap.Error(err))
		case strings.TrimSpace(text) != "":
			target.Content = text
		}
	}

	v, err := s.classifier.Classify(ctx, target)
	if err == nil {
		err = v.Validate()
	}
	if err != nil {
		s.recorder.Failed(s.clock.Now().Sub(start))
		return domain.Record{}, fmt.Errorf("classify content: %w", err)
	}

	rec := domain.NewRecord(domain.RecordID(s.ids.NewID()), tenant, req, v, s.clock.Now())
	s.recorder.Classified(rec.Status, s.clock.Now().Sub(start))

	if s.reports != nil {
		url, err := s.reports.Put(ctx, ReportKey(&rec), &rec)
		if err != nil {
			s.log.Warn("archive report failed", zap.String("id", string(rec.ID)), zap.Error(err))
		} else {
			rec.ReportURL = url
		}
	}
	if s.repo != nil {
		if err := s.repo.Save(ctx, &rec); err != nil {
			s.log.Error("save record failed", zap.String("id", string(rec.ID)), zap.Error(err))
		}
	}
	return rec, nil
}

// ReportKey is the archive object key for r: <tenant>/<yyyy>/<mm>/<id>.json
func ReportKey(r *domain.Record) string {
	return fmt.Sprintf("%s/%04d/%02d/%s.json", r.TenantID, r.Timestamp.Year(), int(r.Timestamp.Month()), r.ID)
}
