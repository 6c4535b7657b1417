package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kgraph/extractor-core/internal/global"
	"github.com/openai/openai-go/v2/option"
	"github.com/rs/zerolog"
)

// NewFromConfig builds a BaseClient with the single provider named by
// cfg.Provider registered and set as the default ModelGenerate backend,
// mirroring §9's Real(llm_endpoint)|Null polymorphism: an empty provider
// name falls back to the Null provider, an unrecognised one fails startup
// with a clear error rather than silently running with no LLM backend.
func NewFromConfig(ctx context.Context, cfg global.LLMConfig, logger zerolog.Logger) (*BaseClient, error) {
	client := NewClient(logger)

	provider, err := buildProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client.AddProvider(provider)
	if err := client.SetDefaultModel(ModelGenerate, provider.Name()); err != nil {
		return nil, err
	}
	return client, nil
}

func buildProvider(ctx context.Context, cfg global.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		name := cfg.OpenAI.Model
		if name == "" {
			name = "gpt-4o-mini"
		}
		var opts []option.RequestOption
		if cfg.OpenAI.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.OpenAI.BaseURL))
		}
		return NewOpenAIProvider(name, cfg.OpenAI.APIKey, opts...), nil

	case "ollama":
		base := cfg.Ollama.BaseURL
		if base == "" {
			base = "http://localhost:11434"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("llmprovider: invalid ollama base url %q: %w", base, err)
		}
		name := cfg.Ollama.Model
		if name == "" {
			name = "llama3.1"
		}
		return NewOllamaProvider(name, u, http.DefaultClient), nil

	case "gemini":
		name := cfg.Gemini.Model
		if name == "" {
			name = "gemini-2.5-flash"
		}
		return NewGeminiProvider(ctx, name, cfg.Gemini.APIKey)

	case "", "null":
		return NewNullProvider("null"), nil

	default:
		return nil, fmt.Errorf("llmprovider: unknown provider %q", cfg.Provider)
	}
}
