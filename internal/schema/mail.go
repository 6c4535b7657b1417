package schema

import "time"

// Email is a single Gmail-style message, grounded on
// original_source/packages/schemas/gmail/email.py. Keyed by message_id.
type Email struct {
	MessageID      string    `json:"message_id" validate:"required"`
	ThreadID       string    `json:"thread_id" validate:"required"`
	Subject        string    `json:"subject"`
	Snippet        string    `json:"snippet"`
	Body           *string   `json:"body,omitempty"`
	SentAt         time.Time `json:"sent_at" validate:"required"`
	Labels         []string  `json:"labels"`
	SizeEstimate   int       `json:"size_estimate" validate:"gte=0"`
	HasAttachments bool      `json:"has_attachments"`
	InReplyTo      *string   `json:"in_reply_to,omitempty"`
	References     []string  `json:"references"`

	Temporal
	Provenance
}

// Thread is a Gmail conversation thread, keyed by thread_id.
type Thread struct {
	ThreadID         string    `json:"thread_id" validate:"required"`
	Subject          string    `json:"subject"`
	MessageCount     int       `json:"message_count" validate:"gte=1"`
	ParticipantCount int       `json:"participant_count" validate:"gte=1"`
	FirstMessageAt   time.Time `json:"first_message_at" validate:"required"`
	LastMessageAt    time.Time `json:"last_message_at" validate:"required,gtefield=FirstMessageAt"`
	Labels           []string  `json:"labels"`

	Temporal
	Provenance
}

// Attachment is a file attached to an Email, keyed by attachment_id.
type Attachment struct {
	AttachmentID string  `json:"attachment_id" validate:"required"`
	Filename     string  `json:"filename" validate:"required"`
	MimeType     string  `json:"mime_type" validate:"required"`
	Size         int64   `json:"size" validate:"gte=0"`
	ContentHash  *string `json:"content_hash,omitempty"`
	IsInline     bool    `json:"is_inline"`

	Temporal
	Provenance
}
