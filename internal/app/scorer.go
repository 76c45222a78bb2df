package app

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"

	"askio/internal/ai"
)

// Candidate is one retrieved fragment offered to the relevance judge.
type Candidate struct {
	ChunkID uint
	Text    string
}

// ScoredChunk lives only within a single ask call; it is never persisted.
type ScoredChunk struct {
	ChunkID uint
	Score   float64
	Text    string
}

// RelevanceScorer asks the generative model to judge each candidate fragment
// independently. Candidates run through a bounded worker pool; a pool of size
// one serializes all judge calls, which is the safe default for a local
// inference backend that supports a single in-flight generation.
type RelevanceScorer struct {
	generator Generator
	pool      *ants.Pool
	logger    *slog.Logger
}

func NewRelevanceScorer(generator Generator, workers int, logger *slog.Logger) (*RelevanceScorer, error) {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, err
	}
	return &RelevanceScorer{generator: generator, pool: pool, logger: logger}, nil
}

func (s *RelevanceScorer) Close() {
	s.pool.Release()
}

// Score judges every candidate and returns one ScoredChunk per candidate, in
// candidate order. A failed call or an unparsable completion scores 0.0; a
// malformed judge response must not abort the pipeline.
func (s *RelevanceScorer) Score(ctx context.Context, question string, candidates []Candidate) []ScoredChunk {
	scored := make([]ScoredChunk, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		i := i
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			scored[i] = s.scoreOne(ctx, question, candidates[i])
		})
		if submitErr != nil {
			scored[i] = ScoredChunk{ChunkID: candidates[i].ChunkID, Text: candidates[i].Text}
			wg.Done()
		}
	}
	wg.Wait()

	return scored
}

func (s *RelevanceScorer) scoreOne(ctx context.Context, question string, candidate Candidate) ScoredChunk {
	result := ScoredChunk{ChunkID: candidate.ChunkID, Text: candidate.Text}

	gen, err := s.generator.Generate(ctx, RelevancePrompt(question, candidate.Text), ai.GenerateOptions{
		MaxTokens:   5,
		Temperature: 0,
	})
	if err != nil {
		s.logger.Warn("relevance judge call failed", "chunk_id", candidate.ChunkID, "err", err)
		return result
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(gen.Text), 64)
	if err != nil {
		s.logger.Warn("relevance judge output unparsable", "chunk_id", candidate.ChunkID, "output", gen.Text)
		return result
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	result.Score = score
	return result
}

// FilterByThreshold sorts descending by score and keeps entries at or above
// the threshold. An empty result is the normal "no relevant documents"
// outcome, not a fault.
func FilterByThreshold(scored []ScoredChunk, threshold float64) []ScoredChunk {
	ordered := make([]ScoredChunk, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	kept := ordered[:0]
	for _, sc := range ordered {
		if sc.Score >= threshold {
			kept = append(kept, sc)
		}
	}
	return kept
}
