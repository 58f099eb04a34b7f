// Package bootstrap wires configuration, infrastructure and use cases
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resumatch/resumatch/internal/config"
	"github.com/resumatch/resumatch/internal/core/ports"
	"github.com/resumatch/resumatch/internal/core/usecase"
	"github.com/resumatch/resumatch/internal/infrastructure/embedding/ollama"
	"github.com/resumatch/resumatch/internal/infrastructure/extractor/pdffile"
	"github.com/resumatch/resumatch/internal/infrastructure/pool/jsonfile"
	"github.com/resumatch/resumatch/internal/infrastructure/pool/postgres"
	"github.com/resumatch/resumatch/internal/infrastructure/queue/nats"
	"github.com/resumatch/resumatch/internal/infrastructure/summary"
	"github.com/resumatch/resumatch/internal/infrastructure/summary/gemini"
	"github.com/resumatch/resumatch/internal/infrastructure/summary/openaicompat"
	"github.com/resumatch/resumatch/internal/observability/logging"
	"github.com/resumatch/resumatch/internal/observability/metrics"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Metrics   *metrics.HTTPServerMetrics
	Catalog   *usecase.Catalog
	Matcher   *usecase.Matcher
	Explainer *usecase.Explainer
	Extractor ports.TextExtractor

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	logger := logging.NewJSONLogger(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewHTTPServerMetrics(cfg.ServiceName)

	var closers []func()

	source, err := newPoolSource(ctx, cfg, logger, &closers)
	if err != nil {
		return nil, err
	}

	catalog := usecase.NewCatalog(source, logger)
	// Empty or missing pools are not fatal at startup; matching requests
	// report the pool as unavailable until a reload succeeds.
	if err := catalog.Reload(ctx); err != nil {
		logger.Warn("initial_pool_load_failed", "error", err)
	}
	m.SetPoolSize(cfg.ServiceName, "jobs", catalog.JobCount())
	m.SetPoolSize(cfg.ServiceName, "resumes", catalog.ResumeCount())

	embedder := ollama.New(
		cfg.EmbedURL,
		cfg.EmbedModelBERT,
		cfg.EmbedModelRoBERTa,
		time.Duration(cfg.EmbedTimeoutSeconds)*time.Second,
	).WithInitTimeout(time.Duration(cfg.EmbedInitTimeoutSecs) * time.Second)

	matcher := usecase.NewMatcher(catalog, embedder, logger)

	providers, err := newSummaryProviders(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	explainer := usecase.NewExplainer(providers, time.Duration(cfg.SummaryTimeoutSeconds)*time.Second, logger)
	explainer.SetObserver(func(provider, status string) {
		m.RecordSummaryProvider(cfg.ServiceName, provider, status)
	})

	if cfg.NATSURL != "" {
		reloader, err := nats.New(cfg.NATSURL, cfg.NATSSubject, logger, nats.Options{})
		if err != nil {
			return nil, fmt.Errorf("init nats reloader: %w", err)
		}
		closers = append(closers, reloader.Close)
		if err := reloader.Subscribe(ctx, func(ctx context.Context) error {
			if err := catalog.Reload(ctx); err != nil {
				return err
			}
			m.SetPoolSize(cfg.ServiceName, "jobs", catalog.JobCount())
			m.SetPoolSize(cfg.ServiceName, "resumes", catalog.ResumeCount())
			return nil
		}); err != nil {
			return nil, fmt.Errorf("subscribe pool reload: %w", err)
		}
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Catalog:   catalog,
		Matcher:   matcher,
		Explainer: explainer,
		Extractor: pdffile.New(),
		closeFn: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

func newPoolSource(ctx context.Context, cfg config.Config, logger *slog.Logger, closers *[]func()) (ports.PoolSource, error) {
	switch cfg.PoolSource {
	case "postgres":
		db, err := postgres.OpenDB(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		*closers = append(*closers, func() { _ = db.Close() })
		source := postgres.NewSource(db)
		if err := source.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return source, nil
	default:
		return jsonfile.New(cfg.JobsFile, cfg.ResumesFile, logger), nil
	}
}

// newSummaryProviders assembles the prose cascade in priority order.
// Each provider is only present when its API key is configured and is
// wrapped in a circuit breaker.
func newSummaryProviders(ctx context.Context, cfg config.Config, logger *slog.Logger) ([]ports.SummaryProvider, error) {
	var providers []ports.SummaryProvider

	if cfg.GroqAPIKey != "" {
		groq := openaicompat.New("groq", openaicompat.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel)
		providers = append(providers, summary.Guard(groq, logger))
	}
	if cfg.OpenAIAPIKey != "" {
		openai := openaicompat.New("openai", openaicompat.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
		providers = append(providers, summary.Guard(openai, logger))
	}
	if cfg.GeminiAPIKey != "" {
		gem, err := gemini.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("init gemini provider: %w", err)
		}
		providers = append(providers, summary.Guard(gem, logger))
	}
	return providers, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
