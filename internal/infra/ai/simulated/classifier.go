package simulated

import (
	"context"
	"math/rand"
	"sync"
	"time"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// DefaultDelay is how long a simulated analysis takes.
const DefaultDelay = 2 * time.Second

// Analysis is the fixed explanation attached to every simulated verdict.
const Analysis = "Based on cross-referencing with trusted sources and linguistic analysis, this content shows indicators of..."

// Sources is the fixed source list attached to every simulated verdict.
var Sources = []string{
	"Reuters Fact Check",
	"AP News Verification",
	"BBC Reality Check",
}

const (
	minConfidence   = 60
	confidenceRange = 40
)

// Classifier stands in for a real analysis backend. It waits Delay, then
// returns real or fake with equal probability and a confidence in [60,99].
// The verdict has no relation to the content.
type Classifier struct {
	Delay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds a Classifier seeded from the current time.
func New(delay time.Duration) *Classifier {
	return NewWithSource(delay, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource builds a Classifier using src, for reproducible runs.
func NewWithSource(delay time.Duration, src rand.Source) *Classifier {
	return &Classifier{Delay: delay, rnd: rand.New(src)}
}

func (c *Classifier) Classify(ctx context.Context, _ domain.Request) (domain.Verdict, error) {
	if c.Delay > 0 {
		t := time.NewTimer(c.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return domain.Verdict{}, ctx.Err()
		}
	}

	// rand.Rand tidak thread-safe
	c.mu.Lock()
	authentic := c.rnd.Float64() > 0.5
	confidence := minConfidence + c.rnd.Intn(confidenceRange)
	c.mu.Unlock()

	status := domain.StatusFabricated
	if authentic {
		status = domain.StatusAuthentic
	}
	return domain.Verdict{
		Status:     status,
		Confidence: confidence,
		Sources:    append([]string(nil), Sources...),
		Analysis:   Analysis,
	}, nil
}
