// Package events publishes the Orchestrator's terminal job-state
// transitions onto NATS JetStream, so interested consumers (a UI, a
// metrics sink, an alerting rule) can react without polling the
// Document Store. Grounded on the teacher's
// internal/workers/publishers.Publisher and internal/models/tasks
// message-subject pattern, narrowed from its nine task.* lifecycle
// subjects down to the two terminal states this pipeline has:
// job.completed and job.failed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/schema"
	ec "github.com/kgraph/extractor-core/pkgs/errors"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const (
	SubjectJobCompleted = "job.completed"
	SubjectJobFailed    = "job.failed"

	minRetryInterval = 500 * time.Millisecond
	maxRetryTimes    = 5
)

// JobCompletedEvent is the payload published to SubjectJobCompleted.
type JobCompletedEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	DocID        uuid.UUID `json:"doc_id"`
	TierATriples int       `json:"tier_a_triples"`
	TierBWindows int       `json:"tier_b_windows"`
	TierCTriples int       `json:"tier_c_triples"`
	CompletedAt  time.Time `json:"completed_at"`
}

// JobFailedEvent is the payload published to SubjectJobFailed.
type JobFailedEvent struct {
	JobID      uuid.UUID `json:"job_id"`
	DocID      uuid.UUID `json:"doc_id"`
	Message    string    `json:"message"`
	RetryCount int       `json:"retry_count"`
	FailedAt   time.Time `json:"failed_at"`
}

// Publisher publishes job lifecycle events to JetStream, retrying with
// exponential backoff on a transient publish failure before surfacing
// pkgs/errors.ErrNATSMsgPublishFailed.
type Publisher struct {
	js     nats.JetStreamContext
	logger zerolog.Logger
	tracer trace.Tracer
}

func NewPublisher(js nats.JetStreamContext, logger zerolog.Logger) *Publisher {
	return &Publisher{js: js, logger: logger, tracer: otel.Tracer("extractor.events")}
}

// PublishJobCompleted announces a job's arrival at COMPLETED, using the
// current UTC time as completed_at if the job somehow lacks a CompletedAt
// (defensive: the Orchestrator always sets one on this path).
func (p *Publisher) PublishJobCompleted(ctx context.Context, job schema.ExtractionJob) error {
	completedAt := time.Now().UTC()
	if job.CompletedAt != nil {
		completedAt = *job.CompletedAt
	}
	return p.publish(ctx, SubjectJobCompleted, JobCompletedEvent{
		JobID:        job.JobID,
		DocID:        job.DocID,
		TierATriples: job.TierATriples,
		TierBWindows: job.TierBWindows,
		TierCTriples: job.TierCTriples,
		CompletedAt:  completedAt,
	})
}

// PublishJobFailed announces a job's arrival at FAILED.
func (p *Publisher) PublishJobFailed(ctx context.Context, job schema.ExtractionJob) error {
	event := JobFailedEvent{
		JobID:      job.JobID,
		DocID:      job.DocID,
		RetryCount: job.RetryCount,
		FailedAt:   time.Now().UTC(),
	}
	if job.Errors != nil {
		event.Message = job.Errors.Message
		event.FailedAt = job.Errors.OccurredAt
	}
	return p.publish(ctx, SubjectJobFailed, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, payload any) error {
	sCtx, span := p.tracer.Start(ctx, "events.publish",
		trace.WithAttributes(attribute.String("subject", subject)))
	defer span.End()

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	headers := nats.Header{}
	otel.GetTextMapPropagator().Inject(sCtx, propagation.HeaderCarrier(headers))

	msg := &nats.Msg{Subject: subject, Data: data, Header: headers}

	retry := 0
	_, err = p.js.PublishMsg(msg, nats.Context(ctx))
	for err != nil && retry < maxRetryTimes {
		sleep := min(10*time.Second, minRetryInterval*time.Duration(1<<retry))
		p.logger.Warn().
			Int("retry", retry).
			Str("subject", subject).
			Dur("sleep", sleep).
			Err(err).
			Msg("failed to publish event, retrying")
		time.Sleep(sleep)
		retry++
		_, err = p.js.PublishMsg(msg, nats.Context(ctx))
	}

	if err != nil {
		return ec.ErrNATSMsgPublishFailed.Clone().
			Warp(err).
			WithDetails(fmt.Sprintf("subject %s, retried %d times", subject, maxRetryTimes))
	}
	return nil
}
