package schema

import "time"

// ApiKey is the Auth family's sole record, keyed by key_hash — the
// SHA-256 hex digest of the raw key, never the key itself.
type ApiKey struct {
	KeyHash   string    `json:"key_hash" validate:"required,len=64,hexadecimal"`
	Label     string    `json:"label"`
	IsActive  bool      `json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Temporal
}
