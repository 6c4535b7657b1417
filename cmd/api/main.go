package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kgraph/extractor-core/internal/auth"
	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/docstore"
	"github.com/kgraph/extractor-core/internal/extract"
	"github.com/kgraph/extractor-core/internal/global"
	"github.com/kgraph/extractor-core/internal/httpapi"
	"github.com/kgraph/extractor-core/internal/llmclient"
	"github.com/kgraph/extractor-core/internal/llmprovider"
	"github.com/kgraph/extractor-core/internal/orchestrator"
	"github.com/kgraph/extractor-core/internal/patterns"
	"github.com/kgraph/extractor-core/internal/window"
)

// main is the API process' composition root: it wires every adapter the
// extraction pipeline needs (cache, document store, pattern matcher,
// window selector, LLM provider, orchestrator) behind the thin
// extract/pending and extract/status HTTP surface, per §6 and §9.
func main() {
	if err := global.LoadConfigs(".env", "env", []string{"."}); err != nil {
		global.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	cfg, err := global.LoadAPIProcessConfig()
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("failed to assemble API process configuration")
	}

	ctx := context.Background()
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
	pending := extract.NewPendingBatchUseCase(docs, o, global.Logger)
	authStore := auth.NewApiKeyStore(c)

	server := httpapi.NewServer(authStore, pending, c, global.Logger)

	bind := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	global.Logger.Info().Str("bind", bind).Msg("extraction API server starting")

	if err := http.ListenAndServe(bind, server.NewRouter()); err != nil {
		global.Logger.Fatal().Err(err).Str("bind", bind).Msg("API server failed")
	}
}
