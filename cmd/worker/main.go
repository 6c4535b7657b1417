package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/docstore"
	"github.com/kgraph/extractor-core/internal/events"
	"github.com/kgraph/extractor-core/internal/global"
	"github.com/kgraph/extractor-core/internal/llmclient"
	"github.com/kgraph/extractor-core/internal/llmprovider"
	"github.com/kgraph/extractor-core/internal/orchestrator"
	"github.com/kgraph/extractor-core/internal/patterns"
	"github.com/kgraph/extractor-core/internal/window"
	"github.com/kgraph/extractor-core/internal/worker"
)

// main is the background worker's composition root: it polls
// queue:extraction, drives each job through the Orchestrator, and
// publishes terminal job-state events to NATS JetStream, per §4.7 and
// §9. Shutdown is signal-driven: SIGINT/SIGTERM cancel the context the
// poll loop watches, letting an in-flight process_document call finish
// before the process exits.
func main() {
	if err := global.LoadConfigs(".env", "env", []string{"."}); err != nil {
		global.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	cfg, err := global.LoadWorkerProcessConfig()
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("failed to assemble worker process configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := cfg.Valkey.Client()
	defer redisClient.Close()
	c := cache.NewRedisCache(redisClient)

	pool, err := cfg.Postgres.Pool(ctx)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("failed to connect to Postgres")
	}
	defer pool.Close()
	docs := docstore.NewPostgresStore(pool)

	matcher, err := patterns.LoadFromFile("config/patterns.yaml")
	if err != nil {
		global.Logger.Warn().Err(err).Msg("failed to load entity patterns, starting with an empty matcher")
		matcher = patterns.New()
	}
	selector := window.New(window.DefaultMaxTokens)

	providers, err := llmprovider.NewFromConfig(ctx, cfg.LLM, global.Logger)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("failed to configure LLM provider")
	}
	llm := llmclient.NewClient(providers, c, global.Logger, llmclient.DefaultBatchSize)
	o := orchestrator.New(matcher, selector, llm, c, global.Logger)

	var publisher *events.Publisher
	if cfg.NATS.JetStream {
		_, js, err := cfg.NATS.ConnectJetStream()
		if err != nil {
			global.Logger.Fatal().Err(err).Msg("failed to connect to NATS JetStream")
		}
		publisher = events.NewPublisher(js, global.Logger)
	}

	w := worker.New(c, docs, o, global.Logger, worker.Options{
		PopTimeout:      cfg.Worker.Timeout,
		HealthCheckHost: cfg.Worker.HealthCheckHost,
		HealthCheckPort: cfg.Worker.HealthCheckPort,
		Events:          publisher,
	})

	global.Logger.Info().Msg("extraction worker starting")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		global.Logger.Error().Err(err).Msg("worker exited with error")
	}
	global.Logger.Info().Msg("extraction worker stopped")
}
