package ai

import (
	"context"

	"github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// Classifier turns submitted content into a verdict. Implementations must honour ctx.
type Classifier interface {
	Classify(ctx context.Context, req verification.Request) (verification.Verdict, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, req verification.Request) (verification.Verdict, error)

func (f ClassifierFunc) Classify(ctx context.Context, req verification.Request) (verification.Verdict, error) {
	return f(ctx, req)
}
