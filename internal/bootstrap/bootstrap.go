// Package bootstrap wires config into a ready verification service. Both the
// HTTP server and the CLI start from here.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	appverify "github.com/bryanwahyu/automaton-verify/internal/application/verification"
	"github.com/bryanwahyu/automaton-verify/internal/config"
	"github.com/bryanwahyu/automaton-verify/internal/domain/ai"
	domain "github.com/bryanwahyu/automaton-verify/internal/domain/verification"
	"github.com/bryanwahyu/automaton-verify/internal/infra/ai/cache"
	"github.com/bryanwahyu/automaton-verify/internal/infra/ai/openai"
	"github.com/bryanwahyu/automaton-verify/internal/infra/ai/simulated"
	"github.com/bryanwahyu/automaton-verify/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/automaton-verify/internal/infra/db/mysql"
	"github.com/bryanwahyu/automaton-verify/internal/infra/db/postgres"
	"github.com/bryanwahyu/automaton-verify/internal/infra/fetch"
	minioStore "github.com/bryanwahyu/automaton-verify/internal/infra/storage"
	"github.com/bryanwahyu/automaton-verify/internal/middleware"
)

// App is a wired service plus the health checks of its backends.
type App struct {
	Service  *appverify.Service
	Checkers map[string]middleware.HealthChecker

	closers []func() error
}

// Close shuts the service down, then releases backend connections.
func (a *App) Close(ctx context.Context) error {
	err := a.Service.Close(ctx)
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, a.closers[i]())
	}
	return err
}

// Build connects every configured backend. Partial connections are closed
// when a later step fails.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger, rec appverify.Recorder) (_ *App, err error) {
	app := &App{Checkers: make(map[string]middleware.HealthChecker)}
	defer func() {
		if err != nil {
			for i := len(app.closers) - 1; i >= 0; i-- {
				_ = app.closers[i]()
			}
		}
	}()

	repo, err := app.repository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var reports domain.ReportStore
	if cfg.Minio.Enabled {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("minio init: %w", err)
		}
		reports = store
		app.Checkers["minio"] = store
	}

	classifier, err := app.classifier(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	var fetcher domain.ContentFetcher
	if cfg.Analysis.FetchURLs {
		fetcher = fetch.New(
			&http.Client{Timeout: cfg.Analysis.FetchTimeout, Transport: fetch.GuardedTransport()},
			middleware.ValidateURL,
			fetch.DefaultMaxBytes,
		)
	}

	app.Service = appverify.NewService(appverify.Dependencies{
		Classifier: classifier,
		Repo:       repo,
		Reports:    reports,
		Fetcher:    fetcher,
		Logger:     log,
		Recorder:   rec,
		Timeout:    cfg.Analysis.Timeout,
	})
	log.Info("verification service ready",
		zap.String("classifier", cfg.Analysis.Classifier),
		zap.String("database", cfg.Database.Driver),
		zap.Bool("minio", cfg.Minio.Enabled),
		zap.Bool("redis", cfg.Redis.Enabled),
		zap.Bool("fetch_urls", cfg.Analysis.FetchURLs),
	)
	return app, nil
}

func (a *App) repository(ctx context.Context, cfg *config.Config) (domain.Repository, error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.Database.Driver {
	case config.DriverMySQL:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err == nil {
			a.closers = append(a.closers, db.Close)
			err = mysqlp.EnsureSchema(ctx, db)
		}
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		a.Checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		return mysqlp.NewVerificationRepository(db), nil
	case config.DriverPostgres:
		db, err = postgres.Connect(ctx, cfg.PostgresDSN())
		if err == nil {
			a.closers = append(a.closers, db.Close)
			err = postgres.EnsureSchema(ctx, db)
		}
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		a.Checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
		return postgres.NewVerificationRepository(db), nil
	default:
		repo := memory.NewVerificationRepository()
		a.Checkers["database"] = repo
		return repo, nil
	}
}

func (a *App) classifier(ctx context.Context, cfg *config.Config, log *zap.Logger) (ai.Classifier, error) {
	if cfg.Analysis.Classifier != config.ClassifierOpenAI {
		// simulated draws a fresh verdict per submission, never cached
		if cfg.Redis.Enabled {
			log.Info("redis verdict cache skipped for simulated classifier")
		}
		return simulated.New(cfg.Analysis.Delay), nil
	}

	oc := goopenai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		oc.BaseURL = cfg.OpenAI.BaseURL
	}
	model := cfg.OpenAI.Model
	if model == "" {
		model = openai.DefaultModel
	}
	c := openai.NewClientWithConfig(oc, model)

	if !cfg.Redis.Enabled {
		return c, nil
	}
	rdb, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	a.closers = append(a.closers, rdb.Close)
	store := cache.NewRedisStore(rdb)
	a.Checkers["redis"] = store
	return cache.New(c, store, cfg.Redis.TTL, log), nil
}
