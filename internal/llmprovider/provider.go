package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog"
)

// CompletionRequest is the single-user-message, temperature-pinned shape every
// Tier-C call sends, per the triples prompt contract.
type CompletionRequest struct {
	SystemInstruction string
	UserPrompt        string
	Temperature       float64
	// Schema, when non-nil, is a JSON schema the provider is asked to
	// constrain its output to (only honoured by providers that support
	// structured output).
	Schema json.RawMessage
}

// CompletionResponse carries the raw text a provider produced; parsing it
// into an ExtractionResult is the caller's job.
type CompletionResponse struct {
	Text  string
	Model string
	Raw   any
}

// Provider is a registered, named text-completion backend. Real backends
// (Ollama, OpenAI, Gemini) and the Null backend all implement it uniformly,
// following the spec's guidance to model the client as Real(endpoint) | Null.
type Provider interface {
	Model
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
}

var (
	ErrModelNotFound          = errors.New("model not found")
	ErrModelHasBeenRegistered = errors.New("model has already been registered")
)

// BaseClient is a registry of named providers with a per-type default,
// adapted from the teacher's generate/embed BaseClient down to a single
// generate-type registry.
type BaseClient struct {
	logger        zerolog.Logger
	Providers     map[string]Provider
	DefaultModels map[ModelType]string
}

func NewClient(logger zerolog.Logger) *BaseClient {
	return &BaseClient{
		logger:        logger,
		Providers:     make(map[string]Provider),
		DefaultModels: make(map[ModelType]string),
	}
}

func (cli *BaseClient) AddProvider(p Provider) {
	if _, exists := cli.Providers[p.Name()]; exists {
		cli.logger.Warn().Str("provider", p.Name()).Msg("provider already registered, overwriting")
	}
	cli.Providers[p.Name()] = p
}

func (cli *BaseClient) SetDefaultModel(t ModelType, name string) error {
	if _, ok := cli.Providers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrModelNotFound, name)
	}
	cli.DefaultModels[t] = name
	return nil
}

func (cli *BaseClient) DefaultProvider(t ModelType) (Provider, bool) {
	name, ok := cli.DefaultModels[t]
	if !ok {
		return nil, false
	}
	p, ok := cli.Providers[name]
	return p, ok
}

func (cli *BaseClient) HasProvider(name string) bool {
	_, ok := cli.Providers[name]
	return ok
}

func (cli *BaseClient) ListProviders() []Provider {
	providers := make([]Provider, 0, len(cli.Providers))
	for _, p := range cli.Providers {
		providers = append(providers, p)
	}
	slices.SortFunc(providers, func(a, b Provider) int {
		switch {
		case a.Name() < b.Name():
			return -1
		case a.Name() > b.Name():
			return 1
		default:
			return 0
		}
	})
	return providers
}
