package window_test

import (
	"strings"
	"testing"

	"github.com/kgraph/extractor-core/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectWindowsEmptyInput(t *testing.T) {
	s := window.New(window.DefaultMaxTokens)
	assert.Empty(t, s.SelectWindows(""))
}

func TestSelectWindowsPacksShortSentences(t *testing.T) {
	s := window.New(window.DefaultMaxTokens)
	windows := s.SelectWindows("api-service depends on postgres. It starts after the database is healthy.")
	require.Len(t, windows, 1)
	assert.LessOrEqual(t, windows[0].TokenCount, window.DefaultMaxTokens)
}

func TestSelectWindowsRespectsMaxTokens(t *testing.T) {
	s := window.New(10)
	sentence := strings.Repeat("word ", 30) + "."
	windows := s.SelectWindows(sentence)
	require.NotEmpty(t, windows)
	for _, w := range windows {
		assert.LessOrEqual(t, w.TokenCount, 10)
		assert.LessOrEqual(t, window.EstimateTokens(w.Content), 10)
	}
}

func TestSelectWindowsSingleSentenceExceedsMaxTokensFallsBackToWords(t *testing.T) {
	s := window.New(5)
	longSentence := strings.Repeat("alpha ", 20) + "."
	windows := s.SelectWindows(longSentence)
	require.Greater(t, len(windows), 1)
	for _, w := range windows {
		assert.LessOrEqual(t, window.EstimateTokens(w.Content), 5)
	}
}

func TestEstimateTokensRoundsUp(t *testing.T) {
	// One word: ceil(1*1.3) = 2.
	assert.Equal(t, 2, window.EstimateTokens("word"))
	// Two words: ceil(2*1.3) = ceil(2.6) = 3.
	assert.Equal(t, 3, window.EstimateTokens("two words"))
}
