package main

import (
	"io"
	"log/slog"

	"github.com/omniweb/omniweb/core/client"
	"github.com/omniweb/omniweb/core/client/middleware"
	"github.com/omniweb/omniweb/internal/catalog"
	"github.com/omniweb/omniweb/internal/config"
	"github.com/omniweb/omniweb/internal/hardware"
	"github.com/omniweb/omniweb/internal/topics"
	"github.com/omniweb/omniweb/providers/ai/ollama"
	"github.com/omniweb/omniweb/providers/observability/slogobs"
)

// app is the wired object graph shared by the subcommands.
type app struct {
	cfg      *config.Config
	observer *slogobs.Observer
	client   *client.Client
	capacity *hardware.Capacity
	catalog  *catalog.Catalog
	topics   *topics.Service
}

func newApp(cfg *config.Config, logOutput io.Writer) (*app, error) {
	level := slogobs.ParseLevel(cfg.Logging.Level)
	observer := slogobs.New(
		slogobs.WithLevel(level),
		slogobs.WithFormat(slogobs.ParseFormat(cfg.Logging.Format)),
		slogobs.WithOutput(logOutput),
	)

	provider := ollama.New().WithBaseURL(cfg.Ollama.BaseURL)

	opts := []client.Option{client.WithObserver(observer)}
	if level <= slog.LevelDebug {
		verbosity := middleware.LogLevelStandard
		if level <= slogobs.LevelTrace {
			verbosity = middleware.LogLevelVerbose
		}
		opts = append(opts, client.WithMiddleware(middleware.NewLoggingMiddleware(observer.Logger(), verbosity)))
	}
	llm, err := client.New(provider, opts...)
	if err != nil {
		return nil, err
	}

	capacity := hardware.NewCapacity(nil)
	models := catalog.New(llm,
		catalog.WithCapacity(capacity),
		catalog.WithHeadroom(cfg.Catalog.Headroom),
		catalog.WithListTimeout(cfg.Ollama.ListTimeout),
		catalog.WithCacheTTL(cfg.Catalog.CacheTTL),
	)

	service := topics.New(llm, models,
		topics.WithTimeouts(cfg.Ollama.GenerateTimeout, cfg.Ollama.RandomTimeout, cfg.Ollama.StreamTimeout),
		topics.WithRandomFallback(cfg.Topics.RandomFallback),
		topics.WithRandomAttempts(cfg.Topics.RandomAttempts),
		topics.WithExpandNumCtx(cfg.Topics.ExpandNumCtx),
	)

	return &app{
		cfg:      cfg,
		observer: observer,
		client:   llm,
		capacity: capacity,
		catalog:  models,
		topics:   service,
	}, nil
}

// benchClient wraps the same provider with retries, which the benchmark
// tolerates but topic expansion must not use.
func (a *app) benchClient() (*client.Client, error) {
	return client.New(a.client.Provider(),
		client.WithObserver(a.observer),
		client.WithMiddleware(middleware.NewRetryMiddleware(middleware.RetryConfig{MaxRetries: 2})),
	)
}
