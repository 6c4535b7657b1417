package schema

// ExtractionWindow is the transient, non-persisted unit of text Tier C
// consumes. Produced by the Window Selector, consumed within one
// Orchestrator run only.
type ExtractionWindow struct {
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
}

// Triple is a subject-predicate-object assertion with a confidence
// score, produced by Tier C.
type Triple struct {
	Subject    string  `json:"subject" validate:"required"`
	Predicate  string  `json:"predicate" validate:"required"`
	Object     string  `json:"object" validate:"required"`
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`
}

// ExtractionResult wraps the triples produced for one window; it is what
// the Tier-C cache stores verbatim under the window's fingerprint.
type ExtractionResult struct {
	Triples []Triple `json:"triples"`
}
