package app

import (
	"context"
	"log/slog"
	"strings"

	"askio/internal/ai"
)

const (
	defaultAnswerMaxTokens = 200
	answerTemperature      = 0.7
	answerTopP             = 0.9

	// Returned whenever generation itself fails; callers always get a
	// well-formed answer, never a raw model error.
	apologyAnswer = "Sorry, I was unable to generate an answer right now. Please try again later."
)

var answerStopSequences = []string{"\n\nQuestion:", "<|endoftext|>"}

// SynthesisResult carries the post-processed answer. Failed marks the
// generation-failure fallback so the pipeline can skip the cache write.
type SynthesisResult struct {
	Answer     string
	TokensUsed int
	Failed     bool
}

// AnswerSynthesizer builds the grounded prompt and turns the raw completion
// into a well-formed answer.
type AnswerSynthesizer struct {
	generator Generator
	maxTokens int
	logger    *slog.Logger
}

func NewAnswerSynthesizer(generator Generator, maxTokens int, logger *slog.Logger) *AnswerSynthesizer {
	if maxTokens <= 0 {
		maxTokens = defaultAnswerMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnswerSynthesizer{generator: generator, maxTokens: maxTokens, logger: logger}
}

// Synthesize generates an answer grounded in the given fragments.
func (s *AnswerSynthesizer) Synthesize(ctx context.Context, question string, fragments []string) SynthesisResult {
	gen, err := s.generator.Generate(ctx, AnswerPrompt(question, fragments), ai.GenerateOptions{
		MaxTokens:   s.maxTokens,
		Temperature: answerTemperature,
		TopP:        answerTopP,
		Stop:        answerStopSequences,
	})
	if err != nil {
		s.logger.Error("answer generation failed", "err", err)
		return SynthesisResult{Answer: apologyAnswer, Failed: true}
	}

	answer := trimToLastSentence(strings.TrimSpace(gen.Text))

	tokens := gen.TokensUsed
	if tokens == 0 {
		tokens = estimateTokens(answer)
	}
	return SynthesisResult{Answer: answer, TokensUsed: tokens}
}

// trimToLastSentence cuts the completion at the last period so a bounded
// generation does not end mid-sentence. Text without any period is returned
// whole; this is a quality heuristic, not a guarantee of well-formed prose.
func trimToLastSentence(text string) string {
	if idx := strings.LastIndex(text, "."); idx >= 0 {
		return text[:idx+1]
	}
	return text
}

// estimateTokens approximates usage at one token per four characters, used
// only when the provider reports no usage metadata.
func estimateTokens(text string) int {
	return len(text) / 4
}
