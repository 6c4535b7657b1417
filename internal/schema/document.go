package schema

import (
	"time"

	"github.com/google/uuid"
)

// SourceType enumerates where a Document's content originated.
type SourceType string

const (
	SourceWeb  SourceType = "web"
	SourceFile SourceType = "file"
	SourceAPI  SourceType = "api"
	SourceMail SourceType = "mail"
)

func (s SourceType) Valid() bool {
	switch s {
	case SourceWeb, SourceFile, SourceAPI, SourceMail:
		return true
	default:
		return false
	}
}

// ExtractionState is the Orchestrator's per-document state machine
// position. Transitions are monotonic along the happy path; FAILED is
// the only terminal state reachable off the happy path.
type ExtractionState string

const (
	StatePending     ExtractionState = "PENDING"
	StateTierADone   ExtractionState = "TIER_A_DONE"
	StateTierBDone   ExtractionState = "TIER_B_DONE"
	StateTierCDone   ExtractionState = "TIER_C_DONE"
	StateCompleted   ExtractionState = "COMPLETED"
	StateFailed      ExtractionState = "FAILED"
)

// Terminal reports whether a state ends the state machine.
func (s ExtractionState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Document is a single ingested unit of content tracked through the
// extraction pipeline. Its state is mutated only by the Orchestrator via
// the Document Store; the core never destroys a Document.
type Document struct {
	DocID            uuid.UUID       `json:"doc_id" validate:"required"`
	SourceURL        string          `json:"source_url" validate:"required"`
	SourceType       SourceType      `json:"source_type" validate:"required"`
	ContentHash      string          `json:"content_hash" validate:"required,len=64,hexadecimal"`
	IngestedAt       time.Time       `json:"ingested_at" validate:"required"`
	ExtractionState  ExtractionState `json:"extraction_state" validate:"required"`
	LastUpdatedAt    time.Time       `json:"last_updated_at" validate:"required"`
}
