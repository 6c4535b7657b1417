// Package window implements the Tier B window selector: splitting
// document text into token-bounded windows on sentence boundaries, with
// a word-level fallback for oversized sentences. Grounded on
// original_source/packages/extraction/tier_b/window_selector.py, with
// two deliberate departures documented in DESIGN.md: the token estimator
// rounds up (ceil) rather than truncates, and sentence splitting uses a
// lookahead-free regexp since RE2 has no lookbehind support.
package window

import (
	"math"
	"regexp"
	"strings"

	"github.com/kgraph/extractor-core/internal/schema"
)

const DefaultMaxTokens = 512

var sentenceBoundaryRe = regexp.MustCompile(`[.!?]\s+`)

// EstimateTokens approximates token count as ceil(words * 1.3), where
// words is a whitespace-split count.
func EstimateTokens(text string) int {
	words := len(strings.Fields(text))
	return int(math.Ceil(float64(words) * 1.3))
}

// Selector splits text into ≤max_tokens windows. It is a process-wide,
// immutable-after-construction singleton per the concurrency model.
type Selector struct {
	maxTokens int
}

func New(maxTokens int) *Selector {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Selector{maxTokens: maxTokens}
}

func splitSentences(text string) []string {
	locs := sentenceBoundaryRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		s := strings.TrimSpace(text)
		if s == "" {
			return nil
		}
		return []string{s}
	}

	var sentences []string
	prev := 0
	for _, loc := range locs {
		splitAt := loc[0] + 1 // right after the terminal punctuation
		sentences = append(sentences, text[prev:splitAt])
		prev = loc[1] // skip the whitespace run entirely
	}
	sentences = append(sentences, text[prev:])

	out := sentences[:0]
	for _, s := range sentences {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// SelectWindows implements the greedy-packing algorithm: sentences are
// appended to the current window while under max_tokens; a sentence
// alone exceeding max_tokens falls back to word-level packing.
func (s *Selector) SelectWindows(text string) []schema.ExtractionWindow {
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)
	var windows []schema.ExtractionWindow

	var current []string
	currentTokens := 0
	currentStart := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		windowText := strings.Join(current, " ")
		windows = append(windows, schema.ExtractionWindow{
			Content:    windowText,
			TokenCount: currentTokens,
			Start:      currentStart,
			End:        currentStart + len(windowText),
		})
		currentStart += len(windowText) + 1
		current = nil
		currentTokens = 0
	}

	for _, sentence := range sentences {
		sentenceTokens := EstimateTokens(sentence)

		if sentenceTokens > s.maxTokens {
			flush()
			s.packWords(sentence, &windows, &currentStart)
			continue
		}

		if currentTokens+sentenceTokens > s.maxTokens && len(current) > 0 {
			flush()
		}

		current = append(current, sentence)
		currentTokens += sentenceTokens
	}

	flush()
	return windows
}

func (s *Selector) packWords(sentence string, windows *[]schema.ExtractionWindow, currentStart *int) {
	words := strings.Fields(sentence)

	var wordWindow []string
	for _, word := range words {
		candidate := append(append([]string{}, wordWindow...), word)
		if EstimateTokens(strings.Join(candidate, " ")) > s.maxTokens && len(wordWindow) > 0 {
			windowText := strings.Join(wordWindow, " ")
			*windows = append(*windows, schema.ExtractionWindow{
				Content:    windowText,
				TokenCount: EstimateTokens(windowText),
				Start:      *currentStart,
				End:        *currentStart + len(windowText),
			})
			*currentStart += len(windowText) + 1
			wordWindow = nil
		}
		wordWindow = append(wordWindow, word)
	}

	if len(wordWindow) > 0 {
		windowText := strings.Join(wordWindow, " ")
		*windows = append(*windows, schema.ExtractionWindow{
			Content:    windowText,
			TokenCount: EstimateTokens(windowText),
			Start:      *currentStart,
			End:        *currentStart + len(windowText),
		})
		*currentStart += len(windowText) + 1
	}
}
