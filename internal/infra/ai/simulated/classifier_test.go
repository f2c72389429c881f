package simulated

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
)

func TestClassify_Ranges(t *testing.T) {
	c := NewWithSource(0, rand.NewSource(42))
	seen := map[domain.Status]int{}

	for i := 0; i < 500; i++ {
		v, err := c.Classify(context.Background(), domain.Request{Kind: domain.KindText, Content: "x"})
		require.NoError(t, err)
		require.NoError(t, v.Validate())
		assert.GreaterOrEqual(t, v.Confidence, 60)
		assert.LessOrEqual(t, v.Confidence, 99)
		assert.Equal(t, Sources, v.Sources)
		assert.Equal(t, Analysis, v.Analysis)
		seen[v.Status]++
	}

	assert.Positive(t, seen[domain.StatusAuthentic])
	assert.Positive(t, seen[domain.StatusFabricated])
	assert.Zero(t, seen[domain.StatusUncertain])
}

func TestClassify_SourcesNotShared(t *testing.T) {
	c := NewWithSource(0, rand.NewSource(1))
	v, err := c.Classify(context.Background(), domain.Request{Content: "x"})
	require.NoError(t, err)
	v.Sources[0] = "changed"
	assert.Equal(t, "Reuters Fact Check", Sources[0])
}

func TestClassify_HonoursContext(t *testing.T) {
	c := New(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Classify(ctx, domain.Request{Content: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClassify_WaitsDelay(t *testing.T) {
	c := New(30 * time.Millisecond)
	start := time.Now()
	_, err := c.Classify(context.Background(), domain.Request{Content: "x"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
