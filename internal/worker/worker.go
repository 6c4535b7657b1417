// Package worker implements the Background Worker (§4.7): a blocking-pop
// loop over queue:extraction dispatching each valid job to the
// Orchestrator, plus the dead-letter-queue path for failures that escape
// process_document entirely (a document store lookup failing before the
// orchestrator ever runs). Grounded on
// original_source/apps/worker/main.py's poll_once loop shape and on the
// teacher's internal/workers/runner.go for the health-check server and
// signal-driven graceful shutdown, adapted from NATS pull-subscriptions
// to the Redis BLPOP polling this domain's queue uses.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/cache"
	"github.com/kgraph/extractor-core/internal/docstore"
	"github.com/kgraph/extractor-core/internal/events"
	"github.com/kgraph/extractor-core/internal/orchestrator"
	"github.com/kgraph/extractor-core/internal/schema"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DefaultPopTimeout is queue:extraction's blocking-pop timeout, per
// §4.7's worker loop contract.
const DefaultPopTimeout = 5 * time.Second

// DefaultMaxRetries bounds should_retry's window for failures the DLQ
// handles — those outside the orchestrator's own internal retry.
const DefaultMaxRetries = 3

// Options configures a Worker's polling and health-check behaviour.
type Options struct {
	PopTimeout      time.Duration
	HealthCheckHost string
	HealthCheckPort int
	MaxRetries      int
	// Events, if set, is notified of every terminal job state the
	// Orchestrator reaches. Nil disables lifecycle event publishing.
	Events *events.Publisher
}

func defaultOptions() Options {
	return Options{
		PopTimeout:      DefaultPopTimeout,
		HealthCheckHost: "localhost",
		HealthCheckPort: 8080,
		MaxRetries:      DefaultMaxRetries,
	}
}

// Worker is the composition root's background-job driver: pop, look up
// content, run the Orchestrator, persist the resulting state via the
// Document Store. It holds no shared mutable state beyond the Cache and
// Document Store clients it was constructed with, per §5.
type Worker struct {
	cache        cache.Cache
	docs         docstore.Store
	orchestrator *orchestrator.Orchestrator
	logger       zerolog.Logger
	opts         Options

	healthServer *http.Server
}

func New(c cache.Cache, docs docstore.Store, o *orchestrator.Orchestrator, logger zerolog.Logger, opts Options) *Worker {
	defaults := defaultOptions()
	if opts.PopTimeout <= 0 {
		opts.PopTimeout = defaults.PopTimeout
	}
	if opts.HealthCheckHost == "" {
		opts.HealthCheckHost = defaults.HealthCheckHost
	}
	if opts.HealthCheckPort == 0 {
		opts.HealthCheckPort = defaults.HealthCheckPort
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaults.MaxRetries
	}
	return &Worker{cache: c, docs: docs, orchestrator: o, logger: logger, opts: opts}
}

// Run polls queue:extraction until ctx is cancelled (wired by the caller
// to SIGINT/SIGTERM via signal.NotifyContext), per §5's cancellation
// contract: the current blocking pop returns and the loop exits, but an
// in-flight process_document call always runs to its own terminal state
// first.
func (w *Worker) Run(ctx context.Context) error {
	go w.startHealthCheckServer()

	w.logger.Info().
		Dur("pop_timeout", w.opts.PopTimeout).
		Msg("worker started, polling queue:extraction")

	for {
		select {
		case <-ctx.Done():
			w.shutdownHealthCheckServer()
			return ctx.Err()
		default:
		}

		envelope, ok, err := w.cache.PopJob(ctx, w.opts.PopTimeout)
		if err != nil {
			w.logger.Error().Err(err).Msg("queue poll failed")
			continue
		}
		if !ok {
			continue
		}

		w.handleJob(ctx, *envelope)
	}
}

// handleJob validates the envelope and, for a well-formed job, dispatches
// it to the Orchestrator. Malformed JSON or a non-UUID doc_id is logged
// and discarded without retry or DLQ — per §4.7, such jobs are already
// unprocessable. Failures in steps BEFORE the orchestrator runs (e.g. a
// document store lookup failure) go through the DLQ/backoff path; the
// orchestrator's own internal retry (§4.1) bounds failures inside
// process_document, so a terminal FAILED job is never itself forwarded to
// the DLQ (the Open Question resolution recorded in DESIGN.md).
func (w *Worker) handleJob(ctx context.Context, envelope cache.JobEnvelope) {
	docID, err := uuid.Parse(envelope.DocID)
	if err != nil {
		w.logger.Warn().Str("doc_id", envelope.DocID).Err(err).Msg("discarding job with non-UUID doc_id")
		return
	}

	doc, err := w.docs.GetDocument(ctx, docID)
	if err != nil {
		w.sendToDLQ(ctx, envelope, fmt.Errorf("document store lookup failed: %w", err))
		return
	}

	content, err := w.docs.GetContent(ctx, docID)
	if err != nil {
		w.sendToDLQ(ctx, envelope, fmt.Errorf("document content lookup failed: %w", err))
		return
	}

	job, err := w.orchestrator.ProcessDocument(ctx, docID, content)
	if err != nil {
		// process_document itself is documented as never returning an
		// error (it always terminates the job record instead); this
		// branch exists only to route an unexpected orchestrator defect
		// to the DLQ rather than crash the loop.
		w.sendToDLQ(ctx, envelope, fmt.Errorf("orchestrator error: %w", err))
		return
	}

	doc.ExtractionState = job.State
	doc.LastUpdatedAt = time.Now().UTC()
	if err := w.docs.UpdateDocument(ctx, doc, content); err != nil {
		w.logger.Error().Err(err).Str("doc_id", docID.String()).Msg("failed to persist terminal document state")
	}

	w.publishTerminalEvent(ctx, job)

	w.logger.Info().
		Str("doc_id", docID.String()).
		Str("job_id", job.JobID.String()).
		Str("state", string(job.State)).
		Msg("job dispatched to orchestrator")
}

// sendToDLQ implements the worker-level retry/backoff path for failures
// outside the orchestrator: increment the retry counter, and either push
// to the DLQ (retries exhausted) or let the caller re-attempt later by
// simply not requeuing — the job will only resurface if a higher-level
// re-publisher re-enqueues it, matching the spec's description of the
// DLQ as a sink for "failures that escape the orchestrator".
func (w *Worker) sendToDLQ(ctx context.Context, envelope cache.JobEnvelope, cause error) {
	retryCount, err := w.cache.IncrementRetryCount(ctx, envelope.DocID)
	if err != nil {
		w.logger.Error().Err(err).Str("doc_id", envelope.DocID).Msg("failed to increment retry count")
	}

	shouldRetry, err := w.cache.ShouldRetry(ctx, envelope.DocID, w.opts.MaxRetries)
	if err != nil {
		w.logger.Error().Err(err).Str("doc_id", envelope.DocID).Msg("failed to evaluate retry eligibility")
	}
	if shouldRetry {
		delay := cache.CalculateBackoffDelay(retryCount, cache.DefaultBaseDelay)
		w.logger.Warn().
			Err(cause).
			Str("doc_id", envelope.DocID).
			Int("retry_count", retryCount).
			Dur("backoff", delay).
			Msg("job failed outside orchestrator, eligible for retry")
		return
	}

	jobData := map[string]any{"doc_id": envelope.DocID}
	raw, _ := json.Marshal(envelope)
	_ = json.Unmarshal(raw, &jobData)

	if err := w.cache.SendToDLQ(ctx, cache.DLQEnvelope{
		JobData:  jobData,
		Error:    cause.Error(),
		FailedAt: time.Now().UTC(),
	}); err != nil {
		w.logger.Error().Err(err).Str("doc_id", envelope.DocID).Msg("failed to push job to dead-letter queue")
		return
	}
	if err := w.cache.ClearRetryCount(ctx, envelope.DocID); err != nil {
		w.logger.Warn().Err(err).Str("doc_id", envelope.DocID).Msg("failed to clear retry count after DLQ push")
	}
	w.logger.Error().
		Err(cause).
		Str("doc_id", envelope.DocID).
		Int("retry_count", retryCount).
		Msg("job sent to dead-letter queue after exhausting retries")
}

func (w *Worker) startHealthCheckServer() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", w.healthCheck)
	mux.HandleFunc("/metrics", promhttp.Handler().ServeHTTP)

	addr := fmt.Sprintf("%s:%d", w.opts.HealthCheckHost, w.opts.HealthCheckPort)
	w.healthServer = &http.Server{Addr: addr, Handler: mux}

	w.logger.Info().Str("addr", addr).Msg("worker health check server starting")
	if err := w.healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		w.logger.Error().Err(err).Msg("health check server failed")
	}
}

func (w *Worker) shutdownHealthCheckServer() {
	if w.healthServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.healthServer.Shutdown(ctx); err != nil {
		w.logger.Error().Err(err).Msg("health check server forced to shutdown")
	}
}

// publishTerminalEvent notifies the Events Publisher of a job's terminal
// state, if one is configured. A publish failure is logged, never
// retried here — the job's own state is already durably persisted by the
// time this runs.
func (w *Worker) publishTerminalEvent(ctx context.Context, job schema.ExtractionJob) {
	if w.opts.Events == nil {
		return
	}

	var err error
	switch job.State {
	case schema.StateCompleted:
		err = w.opts.Events.PublishJobCompleted(ctx, job)
	case schema.StateFailed:
		err = w.opts.Events.PublishJobFailed(ctx, job)
	}
	if err != nil {
		w.logger.Error().Err(err).Str("job_id", job.JobID.String()).Msg("failed to publish job lifecycle event")
	}
}

func (w *Worker) healthCheck(resp http.ResponseWriter, _ *http.Request) {
	resp.WriteHeader(http.StatusOK)
	_, _ = resp.Write([]byte(`{"status":"ok"}`))
}
