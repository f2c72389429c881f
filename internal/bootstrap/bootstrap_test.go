package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-verify/internal/config"
	"github.com/bryanwahyu/automaton-verify/internal/infra/ai/cache"
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
	"github.com/bryanwahyu/automaton-verify/internal/middleware"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBuild_OpenAIClassifier(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverMemory
	cfg.Analysis.Classifier = config.ClassifierOpenAI
	cfg.OpenAI.APIKey = "sk-test"

	app, err := Build(context.Background(), cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	require.NoError(t, app.Close(context.Background()))
}

func TestBuild_MemorySimulated(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = config.DriverMemory
	cfg.Analysis.Classifier = config.ClassifierSimulated
	cfg.Analysis.Timeout = 5 * time.Second

	m := middleware.NewMetrics()
	app, err := Build(context.Background(), cfg, zap.NewNop(), m)
	require.NoError(t, err)
	assert.Contains(t, app.Checkers, "database")
	assert.NotContains(t, app.Checkers, "redis")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = app.Service.Submit(ctx, "cli", domain.Request{Kind: domain.KindText, Content: "Breaking news"})
	require.NoError(t, err)
	st, err := app.Service.Session("cli").Wait(ctx)
	require.NoError(t, err)
	require.Len(t, st.Records, 1)

	page, err := app.Service.History(ctx, "cli", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total, "records reach the configured repository")

	require.NoError(t, app.Close(ctx))
}

func TestClassifier_RedisCachesOpenAIOnly(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name       string
		classifier string
		wantCache  bool
	}{
		{"openai is cached", config.ClassifierOpenAI, true},
		{"simulated draws fresh verdicts", config.ClassifierSimulated, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.Analysis.Classifier = tt.classifier
			cfg.OpenAI.APIKey = "sk-test"
			cfg.Redis.Enabled = true
			cfg.Redis.Addr = mr.Addr()
			cfg.Redis.TTL = time.Minute

			app := &App{Checkers: make(map[string]middleware.HealthChecker)}
			c, err := app.classifier(context.Background(), cfg, zap.NewNop())
			require.NoError(t, err)
			defer func() {
				for _, closeFn := range app.closers {
					assert.NoError(t, closeFn())
				}
			}()

			_, cached := c.(*cache.Classifier)
			assert.Equal(t, tt.wantCache, cached)
			if tt.wantCache {
				assert.Contains(t, app.Checkers, "redis")
			} else {
				assert.NotContains(t, app.Checkers, "redis")
				assert.Empty(t, app.closers)
			}
		})
	}
}
