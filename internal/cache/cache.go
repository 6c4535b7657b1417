package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kgraph/extractor-core/internal/schema"
)

// JobEnvelope is the minimal JSON shape pushed onto queue:extraction.
type JobEnvelope struct {
	DocID string `json:"doc_id"`
}

// DLQEnvelope is a failed job envelope combined with its error and
// failure time, pushed onto queue:dlq. JobData preserves the complete
// original envelope verbatim.
type DLQEnvelope struct {
	JobData  map[string]any `json:"job_data"`
	Error    string         `json:"error"`
	FailedAt time.Time      `json:"failed_at"`
}

// Cache is the full keyspace contract external boundary: API key
// lookups, per-job extraction state, the Tier-C result cache, the job
// queue, and the dead-letter queue with its retry counters.
type Cache interface {
	GetAPIKey(ctx context.Context, sha256hex string) (*schema.ApiKey, error)
	PutAPIKey(ctx context.Context, sha256hex string, key schema.ApiKey) error

	GetExtractionJob(ctx context.Context, jobID uuid.UUID) (*schema.ExtractionJob, error)
	PutExtractionJob(ctx context.Context, job schema.ExtractionJob) error

	GetExtractionResult(ctx context.Context, sha256hex string) (*schema.ExtractionResult, bool, error)
	PutExtractionResult(ctx context.Context, sha256hex string, result schema.ExtractionResult) error

	PushJob(ctx context.Context, envelope JobEnvelope) error
	PopJob(ctx context.Context, timeout time.Duration) (*JobEnvelope, bool, error)

	SendToDLQ(ctx context.Context, envelope DLQEnvelope) error
	IncrementRetryCount(ctx context.Context, jobID string) (int, error)
	GetRetryCount(ctx context.Context, jobID string) (int, error)
	ShouldRetry(ctx context.Context, jobID string, maxRetries int) (bool, error)
	ClearRetryCount(ctx context.Context, jobID string) error
}
