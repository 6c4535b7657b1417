package llmclient

import "regexp"

// llmInjectionPatterns flags text that looks like it is trying to steer
// the model away from the triples-extraction instruction, carried over
// from the teacher's chunk-ingestion injection scan. Detection here is
// log-only: a match does not block extraction, it just surfaces in the
// logs for operators to review.
var llmInjectionPatterns = []string{
	`(?i)ignore\s+(all\s+)?(previous|prior)\s+instructions`,
	`(?i)forget\s+all\s+prior\s+context`,
	`(?i)you\s+are\s+now\s+a?[\w\s]*`,
	`(?i)system:\s*.*`,
	`(?i)respond\s+as\s+if\s+you\s+are\s+the\s+system`,
	`(?i)---\s*end\s+of\s+user\s+input\s*---`,
	`(?i)#{3,}\s*new\s+instructions\s*#{3,}`,
}

// DetectLlmInjection reports whether window matches any known
// prompt-injection pattern, and which one matched first.
func DetectLlmInjection(window string) (bool, string) {
	for _, pattern := range llmInjectionPatterns {
		if matched, _ := regexp.MatchString(pattern, window); matched {
			return true, pattern
		}
	}
	return false, ""
}
