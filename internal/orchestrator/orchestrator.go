// Package orchestrator implements the Extraction Orchestrator (§4.1): the
// per-document state machine driving Tier A (deterministic parsing +
// pattern matching), Tier B (window selection), and Tier C (LLM triple
// extraction) to completion, with whole-pipeline retry on failure.
// Grounded on original_source/packages/extraction/orchestrator.py's
// ExtractionOrchestrator.process_document, translated from its
// model_copy-and-reassign style into Go value-copy-and-reassign over
// schema.ExtractionJob.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/llmclient"
	"github.com/kgraph/extractor-core/internal/parsers"
	"github.com/kgraph/extractor-core/internal/patterns"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/kgraph/extractor-core/internal/window"
	"github.com/rs/zerolog"
)

// MaxRetries is the pipeline's retry ceiling: up to four attempts total
// (the initial attempt plus three retries), per §4.1.
const MaxRetries = 3

// Orchestrator runs process_document. It holds no per-call state; the
// Pattern Matcher and Window Selector it wraps are process-wide,
// immutable-after-construction singletons per §5's resource model.
type Orchestrator struct {
	patterns *patterns.Matcher
	selector *window.Selector
	llm      *llmclient.Client
	cache    cache.Cache
	logger   zerolog.Logger
}

func New(p *patterns.Matcher, s *window.Selector, llm *llmclient.Client, c cache.Cache, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{patterns: p, selector: s, llm: llm, cache: c, logger: logger}
}

// ProcessDocument runs the full Tier A→B→C pipeline for one document,
// restarting from scratch on any failure up to MaxRetries times. The
// returned job is always in a terminal state (COMPLETED or FAILED); the
// orchestrator itself never calls the Document Store (§4.1's failure
// semantics).
func (o *Orchestrator) ProcessDocument(ctx context.Context, docID uuid.UUID, content string) (schema.ExtractionJob, error) {
	job := schema.NewExtractionJob(uuid.New(), docID, time.Now().UTC())
	if err := o.cache.PutExtractionJob(ctx, job); err != nil {
		o.logger.Warn().Err(err).Str("job_id", job.JobID.String()).Msg("failed to persist initial job state")
	}
	o.logger.Info().Str("job_id", job.JobID.String()).Str("doc_id", docID.String()).Msg("created extraction job")

	for retryCount := 0; ; {
		attempted, err := o.runPipeline(ctx, job, content)
		if err == nil {
			attempted.State = schema.StateCompleted
			attempted.CompletedAt = timePtr(time.Now().UTC())
			o.putState(ctx, attempted)
			o.logger.Info().
				Str("job_id", attempted.JobID.String()).
				Int("tier_a_triples", attempted.TierATriples).
				Int("tier_b_windows", attempted.TierBWindows).
				Int("tier_c_triples", attempted.TierCTriples).
				Msg("extraction job completed")
			return attempted, nil
		}

		o.logger.Error().
			Err(err).
			Str("job_id", job.JobID.String()).
			Int("retry", retryCount).
			Int("max_retries", MaxRetries).
			Msg("extraction attempt failed")

		if retryCount >= MaxRetries {
			now := time.Now().UTC()
			job.State = schema.StateFailed
			job.CompletedAt = timePtr(now)
			job.Errors = &schema.JobError{
				Message:    err.Error(),
				OccurredAt: now,
				RetryCount: retryCount,
			}
			o.putState(ctx, job)
			o.logger.Error().
				Str("job_id", job.JobID.String()).
				Int("retry_count", retryCount).
				Msg("extraction job failed after exhausting retries")
			return job, nil
		}

		retryCount++
		job.RetryCount = retryCount
	}
}

// runPipeline executes one full Tier A→B→C attempt starting from job's
// PENDING snapshot. Partial progress within a failed attempt is
// discarded: the returned job on error is not used by the caller.
func (o *Orchestrator) runPipeline(ctx context.Context, job schema.ExtractionJob, content string) (schema.ExtractionJob, error) {
	tierATriples := o.runTierA(content)
	job.TierATriples = tierATriples
	job.State = schema.StateTierADone
	o.putState(ctx, job)
	o.logger.Debug().Int("tier_a_triples", tierATriples).Msg("tier a complete")

	windows := o.selector.SelectWindows(content)
	job.TierBWindows = len(windows)
	job.State = schema.StateTierBDone
	o.putState(ctx, job)
	o.logger.Debug().Int("tier_b_windows", len(windows)).Msg("tier b complete")

	windowTexts := make([]string, len(windows))
	for i, w := range windows {
		windowTexts[i] = w.Content
	}
	results, err := o.llm.BatchExtract(ctx, windowTexts)
	if err != nil {
		return job, fmt.Errorf("tier c batch extract: %w", err)
	}

	tierCTriples := 0
	for _, r := range results {
		tierCTriples += len(r.Triples)
	}
	job.TierCTriples = tierCTriples
	job.State = schema.StateTierCDone
	o.putState(ctx, job)
	o.logger.Debug().Int("tier_c_triples", tierCTriples).Msg("tier c complete")

	return job, nil
}

// runTierA counts tier_a_triples as the number of pattern matches found,
// per §4.1 step 2; code blocks and tables are parsed too, but their
// results are discarded and do not contribute to the triple count.
func (o *Orchestrator) runTierA(content string) int {
	_ = parsers.ParseCodeBlocks(content)
	_ = parsers.ParseTables(content)
	matches := o.patterns.FindMatches(content)
	return len(matches)
}

func (o *Orchestrator) putState(ctx context.Context, job schema.ExtractionJob) {
	if err := o.cache.PutExtractionJob(ctx, job); err != nil {
		o.logger.Warn().
			Err(err).
			Str("job_id", job.JobID.String()).
			Str("state", string(job.State)).
			Msg("failed to persist job state transition")
	}
}

func timePtr(t time.Time) *time.Time { return &t }
