package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextWindowBounds(t *testing.T) {
	text := strings.Repeat("abcdefghij", 100) // 1000 runes, no whitespace
	chunks := SplitText(text, 300, 50)

	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len([]rune(chunk)), 300)
	}
	// Windows overlap, so together they cover the whole input.
	assert.Equal(t, chunks[0], text[:300])
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("x", 150) + strings.Repeat("y", 150)
	chunks := SplitText(text, 200, 100)

	require.Len(t, chunks, 3)
	// Consecutive windows share the trailing 100 runes of the previous one.
	assert.Equal(t, chunks[0][100:200], chunks[1][:100])
}

func TestSplitTextGuardsAgainstZeroStride(t *testing.T) {
	text := strings.Repeat("a", 500)

	assert.Nil(t, SplitText(text, 100, 100))
	assert.Nil(t, SplitText(text, 100, 200))
	assert.Nil(t, SplitText(text, 0, 0))
	assert.Nil(t, SplitText(text, -1, -2))
}

func TestSplitTextDropsShortFragments(t *testing.T) {
	// 120 runes: one full window plus a 20-rune tail that must be dropped.
	text := strings.Repeat("a", 120)
	chunks := SplitText(text, 100, 0)

	require.Len(t, chunks, 1)
	assert.Equal(t, strings.Repeat("a", 100), chunks[0])
}

func TestSplitTextTrimsWhitespace(t *testing.T) {
	text := "   " + strings.Repeat("b", 80) + "   "
	chunks := SplitText(text, 200, 10)

	require.Len(t, chunks, 1)
	assert.Equal(t, strings.Repeat("b", 80), chunks[0])
}

func TestSplitTextEmptyInput(t *testing.T) {
	assert.Empty(t, SplitText("", 1000, 100))
	assert.Empty(t, SplitText("too short", 1000, 100))
}
