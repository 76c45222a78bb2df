package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"askio/internal/ai"
)

func TestSynthesizeTruncatesAtLastSentence(t *testing.T) {
	gen := &fakeGenerator{answer: ai.Generation{Text: "First sentence. Second sentence. And a dangling fragm", TokensUsed: 42}}
	syn := NewAnswerSynthesizer(gen, 200, nil)

	result := syn.Synthesize(context.Background(), "q", []string{"ctx"})

	assert.Equal(t, "First sentence. Second sentence.", result.Answer)
	assert.Equal(t, 42, result.TokensUsed)
	assert.False(t, result.Failed)
}

func TestSynthesizeKeepsTextWithoutPeriod(t *testing.T) {
	gen := &fakeGenerator{answer: ai.Generation{Text: "  no punctuation at all  "}}
	syn := NewAnswerSynthesizer(gen, 200, nil)

	result := syn.Synthesize(context.Background(), "q", []string{"ctx"})

	assert.Equal(t, "no punctuation at all", result.Answer)
}

func TestSynthesizeEstimatesTokensWhenUsageMissing(t *testing.T) {
	// 40 characters of answer, usage not reported by the provider.
	gen := &fakeGenerator{answer: ai.Generation{Text: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa."}}
	syn := NewAnswerSynthesizer(gen, 200, nil)

	result := syn.Synthesize(context.Background(), "q", []string{"ctx"})

	assert.Equal(t, 10, result.TokensUsed)
}

func TestSynthesizeFallsBackOnModelFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	syn := NewAnswerSynthesizer(gen, 200, nil)

	result := syn.Synthesize(context.Background(), "q", []string{"ctx"})

	assert.Equal(t, apologyAnswer, result.Answer)
	assert.Zero(t, result.TokensUsed)
	assert.True(t, result.Failed)
}

func TestSynthesizePassesGenerationBounds(t *testing.T) {
	gen := &fakeGenerator{answer: ai.Generation{Text: "ok."}}
	syn := NewAnswerSynthesizer(gen, 123, nil)

	syn.Synthesize(context.Background(), "the question", []string{"fragment a", "fragment b"})

	prompts := gen.recordedPrompts()
	assert.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "fragment a\nfragment b")
	assert.Contains(t, prompts[0], "Question: the question")
}
