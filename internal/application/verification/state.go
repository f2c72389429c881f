package verification

import (
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// State is an immutable snapshot of one session: idle or busy, plus history.
// Transitions return a new State and never modify the receiver.
type State struct {
	Busy      bool            `json:"busy"`
	Pending   *domain.Request `json:"pending,omitempty"`
	Records   []domain.Record `json:"records"`
	LastError string          `json:"last_error,omitempty"`
}

// Begin moves an idle state to busy for req.
func (s State) Begin(req domain.Request) (State, error) {
	if s.Busy {
		return s, domain.ErrBusy
	}
	if isBlank(req.Content) {
		return s, domain.ErrEmptyInput
	}
	p := req
	return State{
		Busy:    true,
		Pending: &p,
		Records: s.Records,
	}, nil
}

// Complete returns to idle with rec at the front of the history.
func (s State) Complete(rec domain.Record) State {
	records := make([]domain.Record, 0, len(s.Records)+1)
	records = append(records, rec.Clone())
	records = append(records, s.Records...)
	return State{Records: records}
}

// Fail returns to idle keeping the history and recording err.
func (s State) Fail(err error) State {
	next := State{Records: s.Records}
	if err != nil {
		next.LastError = err.Error()
	}
	return next
}

// Snapshot returns a deep copy safe to hand to callers.
func (s State) Snapshot() State {
	out := State{Busy: s.Busy, LastError: s.LastError}
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	out.Records = make([]domain.Record, len(s.Records))
	for i, r := range s.Records {
		out.Records[i] = r.Clone()
	}
	return out
}
