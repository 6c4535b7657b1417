package schema

import (
	"time"

	"github.com/google/uuid"
)

// JobError records the last failure seen by a job, per the Open Question
// resolution in DESIGN.md: the source's generic dict is modelled here as
// holding only the most recent error, not an accumulated history.
type JobError struct {
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
	RetryCount int       `json:"retry_count"`
}

// ExtractionJob is the Orchestrator's per-document run record, persisted
// to the Cache under extraction_job:{job_id} on every state transition.
type ExtractionJob struct {
	JobID         uuid.UUID       `json:"job_id" validate:"required"`
	DocID         uuid.UUID       `json:"doc_id" validate:"required"`
	State         ExtractionState `json:"state" validate:"required"`
	TierATriples  int             `json:"tier_a_triples" validate:"gte=0"`
	TierBWindows  int             `json:"tier_b_windows" validate:"gte=0"`
	TierCTriples  int             `json:"tier_c_triples" validate:"gte=0"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	RetryCount    int             `json:"retry_count" validate:"gte=0"`
	Errors        *JobError       `json:"errors,omitempty"`
}

// NewExtractionJob builds a job in its initial PENDING state, matching
// process_document's step 1.
func NewExtractionJob(jobID, docID uuid.UUID, startedAt time.Time) ExtractionJob {
	return ExtractionJob{
		JobID:     jobID,
		DocID:     docID,
		State:     StatePending,
		StartedAt: startedAt,
	}
}
