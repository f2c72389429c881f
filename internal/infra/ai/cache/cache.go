// Package cache memoizes verdicts so identical submissions do not hit the
// language model twice within the TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-verify/internal/domain/ai"
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

// ErrMiss is returned by Store.Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// Store is a byte-oriented key/value store with expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Classifier wraps another classifier with a verdict cache.
type Classifier struct {
	next   ai.Classifier
	store  Store
	ttl    time.Duration
	prefix string
	log    *zap.Logger
}

func New(next ai.Classifier, store Store, ttl time.Duration, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{next: next, store: store, ttl: ttl, prefix: "verdict:", log: log}
}

func (c *Classifier) Classify(ctx context.Context, req domain.Request) (domain.Verdict, error) {
	key := c.prefix + Key(req)

	if b, err := c.store.Get(ctx, key); err == nil {
		var v domain.Verdict
		if err := json.Unmarshal(b, &v); err == nil && v.Validate() == nil {
			return v, nil
		}
		c.log.Warn("discarding unreadable cached verdict", zap.String("key", key))
	} else if !errors.Is(err, ErrMiss) {
		c.log.Warn("verdict cache get failed", zap.Error(err))
	}

	v, err := c.next.Classify(ctx, req)
	if err != nil {
		return v, err
	}

	if b, err := json.Marshal(v); err == nil {
		if err := c.store.Set(ctx, key, b, c.ttl); err != nil {
			c.log.Warn("verdict cache set failed", zap.Error(err))
		}
	}
	return v, nil
}

// Key hashes kind and content; the NUL separator keeps kinds from colliding.
func Key(req domain.Request) string {
	h := sha256.New()
	h.Write([]byte(req.Kind))
	h.Write([]byte{0})
	h.Write([]byte(req.Content))
	return hex.EncodeToString(h.Sum(nil))
}
