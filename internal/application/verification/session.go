package verification

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// Session is the input/orchestration unit for one tenant. It accepts one
// submission at a time and keeps the results newest-first.
// Session is safe for concurrent use.
type Session struct {
	tenant string
	svc    *Service

	mu    sync.Mutex
	state State
	idle  chan struct{} // closed once the current analysis has finished
}

func newSession(tenant string, svc *Service) *Session {
	return &Session{tenant: tenant, svc: svc, state: State{Records: []domain.Record{}}}
}

// Tenant returns the tenant this session belongs to.
func (s *Session) Tenant() string { return s.tenant }

// State returns a snapshot of the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Submit starts analyzing req in the background and returns the busy state.
// Empty input returns ErrEmptyInput and a second submission while busy returns
// ErrBusy; in both cases the state is left untouched.
func (s *Session) Submit(ctx context.Context, req domain.Request) (State, error) {
	req.Content = strings.ReplaceAll(req.Content, "\x00", "")
	if req.Kind == "" {
		req.Kind = domain.KindText
	}

	if err := s.svc.acquire(); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	next, err := s.state.Begin(req)
	if err != nil {
		snap := s.state.Snapshot()
		s.mu.Unlock()
		s.svc.release()
		return snap, err
	}
	s.state = next
	idle := make(chan struct{})
	s.idle = idle
	snap := next.Snapshot()
	s.mu.Unlock()

	s.svc.recorder.Submitted(req.Kind)
	s.svc.log.Info("verification submitted",
		zap.String("tenant", s.tenant),
		zap.String("kind", string(req.Kind)),
		zap.Int("length", len(req.Content)),
	)

	go s.run(ctx, req, idle)
	return snap, nil
}

// Wait blocks until the session is idle or ctx is done.
func (s *Session) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	if idle != nil {
		select {
		case <-idle:
		case <-ctx.Done():
			return s.State(), ctx.Err()
		}
	}
	return s.State(), nil
}

func (s *Session) run(parent context.Context, req domain.Request, idle chan struct{}) {
	defer s.svc.release()
	defer close(idle)

	// lepas dari cancel request HTTP, tapi tetap ikut shutdown service
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.svc.timeout)
	defer cancel()
	stop := context.AfterFunc(s.svc.baseCtx, cancel)
	defer stop()

	rec, err := s.svc.analyze(ctx, s.tenant, req)

	s.mu.Lock()
	if err != nil {
		s.state = s.state.Fail(err)
	} else {
		s.state = s.state.Complete(rec)
	}
	s.mu.Unlock()

	if err != nil {
		s.svc.log.Warn("verification failed", zap.String("tenant", s.tenant), zap.Error(err))
		return
	}
	s.svc.log.Info("verification completed",
		zap.String("tenant", s.tenant),
		zap.String("id", string(rec.ID)),
		zap.String("status", string(rec.Status)),
		zap.Int("confidence", rec.Confidence),
	)
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
