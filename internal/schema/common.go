// Package schema defines the typed entity records the core operates on:
// documents, extraction jobs and windows, triples, and the Compose/
// Tailscale/Mail/Auth entity families the graph writer persists. Every
// Compose, Tailscale, Unifi, and Mail record embeds Temporal and
// Provenance the way every pydantic model in the source system carried
// created_at/updated_at and extraction metadata; ApiKey embeds Temporal
// only, and Document and ExtractionJob carry their own timestamps.
package schema

import "time"

// Tier identifies which extraction stage produced a record.
type Tier string

const (
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
)

func (t Tier) Valid() bool {
	switch t {
	case TierA, TierB, TierC:
		return true
	default:
		return false
	}
}

// Temporal carries the created/updated/source timestamps mandatory on
// every entity record.
type Temporal struct {
	CreatedAt       time.Time  `json:"created_at" validate:"required"`
	UpdatedAt       time.Time  `json:"updated_at" validate:"required,gtefield=CreatedAt"`
	SourceTimestamp *time.Time `json:"source_timestamp,omitempty"`
}

// Provenance carries the extraction metadata mandatory on every entity
// record.
type Provenance struct {
	ExtractionTier    Tier    `json:"extraction_tier" validate:"required,oneof=A B C"`
	ExtractionMethod  string  `json:"extraction_method" validate:"required"`
	Confidence        float64 `json:"confidence" validate:"gte=0,lte=1"`
	ExtractorVersion  string  `json:"extractor_version" validate:"required"`
}
