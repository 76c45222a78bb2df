package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askio/internal/ai"
)

// fakeGenerator answers relevance prompts from a fragment->output table and
// everything else with a fixed answer.
type fakeGenerator struct {
	mu        sync.Mutex
	judge     map[string]string
	answer    ai.Generation
	answerErr error
	err       error
	prompts   []string
}

func generation(text string) ai.Generation {
	return ai.Generation{Text: text, TokensUsed: 10}
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ ai.GenerateOptions) (ai.Generation, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()

	if g.err != nil {
		return ai.Generation{}, g.err
	}
	if strings.HasPrefix(prompt, "Rate how relevant") {
		for fragment, output := range g.judge {
			if strings.Contains(prompt, fragment) {
				return ai.Generation{Text: output}, nil
			}
		}
		return ai.Generation{Text: "0"}, nil
	}
	if g.answerErr != nil {
		return ai.Generation{}, g.answerErr
	}
	return g.answer, nil
}

func (g *fakeGenerator) recordedPrompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func newTestScorer(t *testing.T, gen Generator, workers int) *RelevanceScorer {
	t.Helper()
	scorer, err := NewRelevanceScorer(gen, workers, nil)
	require.NoError(t, err)
	t.Cleanup(scorer.Close)
	return scorer
}

func TestScoreParsesJudgeOutput(t *testing.T) {
	gen := &fakeGenerator{judge: map[string]string{
		"fragment one": "0.9",
		"fragment two": " 0.3\n",
	}}
	scorer := newTestScorer(t, gen, 1)

	scored := scorer.Score(context.Background(), "q", []Candidate{
		{ChunkID: 1, Text: "fragment one"},
		{ChunkID: 2, Text: "fragment two"},
	})

	require.Len(t, scored, 2)
	assert.Equal(t, 0.9, scored[0].Score)
	assert.Equal(t, 0.3, scored[1].Score)
	assert.Equal(t, uint(1), scored[0].ChunkID)
}

func TestScoreUnparsableDefaultsToZero(t *testing.T) {
	gen := &fakeGenerator{judge: map[string]string{
		"garbled": "very relevant!",
	}}
	scorer := newTestScorer(t, gen, 1)

	scored := scorer.Score(context.Background(), "q", []Candidate{{ChunkID: 7, Text: "garbled"}})

	require.Len(t, scored, 1)
	assert.Zero(t, scored[0].Score)
}

func TestScoreJudgeFailureDefaultsToZero(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	scorer := newTestScorer(t, gen, 1)

	scored := scorer.Score(context.Background(), "q", []Candidate{{ChunkID: 1, Text: "anything"}})

	require.Len(t, scored, 1)
	assert.Zero(t, scored[0].Score)
}

func TestScoreClampsOutOfRange(t *testing.T) {
	gen := &fakeGenerator{judge: map[string]string{
		"too high": "1.8",
		"negative": "-0.5",
	}}
	scorer := newTestScorer(t, gen, 2)

	scored := scorer.Score(context.Background(), "q", []Candidate{
		{ChunkID: 1, Text: "too high"},
		{ChunkID: 2, Text: "negative"},
	})

	assert.Equal(t, 1.0, scored[0].Score)
	assert.Equal(t, 0.0, scored[1].Score)
}

func TestFilterByThresholdSortsAndFilters(t *testing.T) {
	scored := []ScoredChunk{
		{ChunkID: 1, Score: 0.3},
		{ChunkID: 2, Score: 0.9},
		{ChunkID: 3, Score: 0.7},
	}

	kept := FilterByThreshold(scored, 0.7)

	require.Len(t, kept, 2)
	assert.Equal(t, uint(2), kept[0].ChunkID)
	assert.Equal(t, uint(3), kept[1].ChunkID)
}

func TestFilterByThresholdMonotonicity(t *testing.T) {
	scored := []ScoredChunk{
		{ChunkID: 1, Score: 0.2},
		{ChunkID: 2, Score: 0.5},
		{ChunkID: 3, Score: 0.8},
		{ChunkID: 4, Score: 0.95},
	}

	prev := len(scored) + 1
	for _, threshold := range []float64{0.0, 0.2, 0.5, 0.7, 0.9, 1.0} {
		n := len(FilterByThreshold(scored, threshold))
		assert.LessOrEqual(t, n, prev, "raising the threshold must never grow the kept set")
		prev = n
	}
}

func TestFilterByThresholdEmptyIsNormal(t *testing.T) {
	kept := FilterByThreshold([]ScoredChunk{{ChunkID: 1, Score: 0.1}}, 0.7)
	assert.Empty(t, kept)
}
