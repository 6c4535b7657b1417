// Package llmclient implements the Tier-C LLM Client (§4.5): a
// SHA-256-fingerprinted, cache-fronted, batch-concurrent wrapper around
// internal/llmprovider. Grounded on the teacher's internal/llm package
// (client.go's single-call shape, chunks.go's injection-pattern scan),
// adapted from the teacher's chunk/embed pipeline to the triples
// extraction contract.
package llmclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/llmprovider"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/rs/zerolog"
)

// DefaultBatchSize is batch_extract's chunk size per §4.5.
const DefaultBatchSize = 16

const systemInstruction = `You extract subject-predicate-object triples from text. ` +
	`Respond with a single JSON object of the exact shape ` +
	`{"triples":[{"subject":"...","predicate":"...","object":"...","confidence":0.0}]}. ` +
	`Use confidence in [0,1]. Emit no other text.`

// Client is the Tier-C extractor: cache_key(window) = SHA-256(utf8(window))
// gates every LLM call through the shared Cache, so identical windows
// across documents never re-prompt the model.
type Client struct {
	providers *llmprovider.BaseClient
	cache     cache.Cache
	logger    zerolog.Logger
	batchSize int
}

func NewClient(providers *llmprovider.BaseClient, c cache.Cache, logger zerolog.Logger, batchSize int) *Client {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Client{providers: providers, cache: c, logger: logger, batchSize: batchSize}
}

// CacheKey computes the lowercase hex SHA-256 fingerprint of a window's
// content, the key every cache lookup and write-back uses.
func CacheKey(window string) string {
	sum := sha256.Sum256([]byte(window))
	return hex.EncodeToString(sum[:])
}

// ExtractFromWindow runs the cache protocol for a single window: lookup,
// on-miss LLM call, parse-or-empty recovery, write-back. A failed
// provider call is returned as an error and nothing is cached.
func (c *Client) ExtractFromWindow(ctx context.Context, window string) (schema.ExtractionResult, error) {
	key := CacheKey(window)

	if cached, hit, err := c.cache.GetExtractionResult(ctx, key); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("tier-c cache lookup failed, falling through to LLM")
	} else if hit {
		return *cached, nil
	}

	if injected, pattern := DetectLlmInjection(window); injected {
		c.logger.Warn().Str("pattern", pattern).Msg("potential llm injection pattern in extraction window")
	}

	result, err := c.callLLM(ctx, window)
	if err != nil {
		return result, err
	}

	if err := c.cache.PutExtractionResult(ctx, key, result); err != nil {
		c.logger.Warn().Err(err).Str("cache_key", key).Msg("failed to write tier-c result back to cache")
	}
	return result, nil
}

// callLLM issues the single-user-message, temperature-0 completion call
// and parses its output. Unparseable or schema-invalid output collapses
// to an empty triple set per §4.5's silent-recovery contract; a failed
// provider call is returned as an error.
func (c *Client) callLLM(ctx context.Context, window string) (schema.ExtractionResult, error) {
	provider, ok := c.providers.DefaultProvider(llmprovider.ModelGenerate)
	if !ok {
		c.logger.Warn().Msg("no default generate provider configured, returning empty triples")
		return schema.ExtractionResult{Triples: []schema.Triple{}}, nil
	}

	resp, err := provider.Complete(ctx, llmprovider.CompletionRequest{
		UserPrompt:  systemInstruction + "\n\n" + window,
		Temperature: 0.0,
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("provider", provider.Name()).Msg("tier-c completion failed")
		return schema.ExtractionResult{Triples: []schema.Triple{}}, err
	}

	return parseExtractionResult(resp.Text), nil
}

// parseExtractionResult decodes a completion's text into an
// ExtractionResult, collapsing non-JSON output, schema-invalid triples,
// or blank responses to an empty triple list rather than erroring.
func parseExtractionResult(text string) schema.ExtractionResult {
	text = strings.TrimSpace(text)
	if text == "" {
		return schema.ExtractionResult{Triples: []schema.Triple{}}
	}

	var result schema.ExtractionResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return schema.ExtractionResult{Triples: []schema.Triple{}}
	}

	valid := make([]schema.Triple, 0, len(result.Triples))
	for _, t := range result.Triples {
		if t.Subject == "" || t.Predicate == "" || t.Object == "" {
			continue
		}
		if t.Confidence < 0 || t.Confidence > 1 {
			continue
		}
		valid = append(valid, t)
	}
	return schema.ExtractionResult{Triples: valid}
}

// BatchExtract processes windows in chunks of the client's batch size;
// within a chunk windows are extracted concurrently, but the returned
// slice always matches input order. If any window of a chunk fails, the
// first such error is returned with no results.
func (c *Client) BatchExtract(ctx context.Context, windows []string) ([]schema.ExtractionResult, error) {
	results := make([]schema.ExtractionResult, len(windows))

	for start := 0; start < len(windows); start += c.batchSize {
		end := min(start+c.batchSize, len(windows))
		chunk := windows[start:end]

		type outcome struct {
			index  int
			result schema.ExtractionResult
			err    error
		}
		outcomes := make(chan outcome, len(chunk))

		for i, w := range chunk {
			go func(idx int, window string) {
				result, err := c.ExtractFromWindow(ctx, window)
				outcomes <- outcome{index: start + idx, result: result, err: err}
			}(i, w)
		}

		var firstErr error
		for range chunk {
			o := <-outcomes
			results[o.index] = o.result
			if o.err != nil && firstErr == nil {
				firstErr = o.err
			}
		}
		if firstErr != nil {
			return nil, firstErr
		}
	}

	return results, nil
}
