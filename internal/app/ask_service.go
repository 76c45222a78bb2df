package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"askio/internal/model"
)

var ErrInvalidInput = errors.New("invalid input")

const (
	defaultTopK               = 5
	defaultRelevanceThreshold = 0.7

	noDocumentsAnswer = "There are no documents in the knowledge base yet. Upload some documents first."
	noRelevantAnswer  = "No relevant documents were found for this question."
)

// AskResult is the caller-facing response of one ask invocation.
type AskResult struct {
	Answer    string   `json:"answer"`
	Tokens    int      `json:"tokens"`
	LatencyMs float64  `json:"latency_ms"`
	Sources   []string `json:"sources"`
}

// AskService orchestrates the question-answering pipeline: cache lookup,
// retrieval, relevance reranking, answer synthesis and cache write-back.
type AskService struct {
	cache       AnswerCache
	retriever   *Retriever
	chunks      ChunkResolver
	scorer      *RelevanceScorer
	synthesizer *AnswerSynthesizer
	publisher   AuditPublisher

	topK      int
	threshold float64
	cacheTTL  time.Duration
	logger    *slog.Logger
}

type AskServiceConfig struct {
	TopK               int
	RelevanceThreshold float64
	CacheTTL           time.Duration
}

func NewAskService(
	cache AnswerCache,
	retriever *Retriever,
	chunks ChunkResolver,
	scorer *RelevanceScorer,
	synthesizer *AnswerSynthesizer,
	publisher AuditPublisher,
	cfg AskServiceConfig,
	logger *slog.Logger,
) *AskService {
	if cfg.TopK <= 0 {
		cfg.TopK = defaultTopK
	}
	if cfg.RelevanceThreshold <= 0 {
		cfg.RelevanceThreshold = defaultRelevanceThreshold
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AskService{
		cache:       cache,
		retriever:   retriever,
		chunks:      chunks,
		scorer:      scorer,
		synthesizer: synthesizer,
		publisher:   publisher,
		topK:        cfg.TopK,
		threshold:   cfg.RelevanceThreshold,
		cacheTTL:    cfg.CacheTTL,
		logger:      logger,
	}
}

// Ask answers a question against the ingested corpus. Expected empty outcomes
// (nothing retrieved, nothing relevant) return fixed answers, not errors; only
// unavailable collaborators surface as an error.
func (s *AskService) Ask(ctx context.Context, question string, topK int) (*AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrInvalidInput
	}
	if topK <= 0 {
		topK = s.topK
	}
	started := time.Now()

	key := CacheKey(question, topK)
	cached, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		// An unreachable cache is a miss, never a failure.
		s.logger.Warn("cache lookup failed", "err", err)
	}
	if hit {
		result := &AskResult{
			Answer:    cached.Answer,
			Tokens:    cached.TokensUsed,
			LatencyMs: cached.DurationSeconds * 1000,
			Sources:   cached.Sources,
		}
		go s.publishAudit(question, result)
		return result, nil
	}

	hits, err := s.retriever.Query(ctx, question, topK)
	if err != nil {
		// Retrieval being unavailable must not be masked as "no documents".
		return nil, err
	}
	if len(hits) == 0 {
		result := fixedResult(noDocumentsAnswer)
		go s.publishAudit(question, result)
		return result, nil
	}

	candidates := make([]Candidate, len(hits))
	chunkIDs := make([]uint, len(hits))
	for i, h := range hits {
		candidates[i] = Candidate{ChunkID: h.Payload.ChunkID, Text: h.Payload.Text}
		chunkIDs[i] = h.Payload.ChunkID
	}
	filenames, err := s.chunks.ResolveSources(ctx, chunkIDs)
	if err != nil {
		return nil, err
	}

	scored := s.scorer.Score(ctx, question, candidates)
	kept := FilterByThreshold(scored, s.threshold)
	if len(kept) == 0 {
		result := fixedResult(noRelevantAnswer)
		go s.publishAudit(question, result)
		return result, nil
	}

	fragments := make([]string, len(kept))
	for i, sc := range kept {
		fragments[i] = sc.Text
	}
	synthesis := s.synthesizer.Synthesize(ctx, question, fragments)

	sources := distinctSources(kept, filenames)
	duration := time.Since(started)
	result := &AskResult{
		Answer:    synthesis.Answer,
		Tokens:    synthesis.TokensUsed,
		LatencyMs: float64(duration.Microseconds()) / 1000,
		Sources:   sources,
	}

	// The fallback answer is not cached, and a cancelled request must not
	// leave a partial cache write behind.
	if !synthesis.Failed && ctx.Err() == nil {
		entry := model.CachedAnswer{
			Answer:          result.Answer,
			TokensUsed:      result.Tokens,
			DurationSeconds: duration.Seconds(),
			Sources:         sources,
		}
		if err := s.cache.Set(ctx, key, entry, s.cacheTTL); err != nil {
			s.logger.Warn("cache write failed", "err", err)
		}
	}

	go s.publishAudit(question, result)
	return result, nil
}

// fixedResult is the response for the expected empty outcomes. It is never
// cached: emptiness reflects corpus state at this moment, and caching it
// would wrongly persist past future ingestions.
func fixedResult(answer string) *AskResult {
	return &AskResult{Answer: answer, Sources: []string{}}
}

// distinctSources collapses the filenames of the surviving chunks to a set,
// preserving relevance order of first appearance.
func distinctSources(kept []ScoredChunk, filenames map[uint]string) []string {
	seen := make(map[string]struct{}, len(kept))
	sources := make([]string, 0, len(kept))
	for _, sc := range kept {
		name, ok := filenames[sc.ChunkID]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}
	return sources
}

// publishAudit enqueues the query record for asynchronous persistence.
// It runs detached from the request: failure is logged and swallowed, and it
// never delays or fails the in-flight response.
func (s *AskService) publishAudit(question string, result *AskResult) {
	if s.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := model.QueryRecord{
		Question:   question,
		Answer:     result.Answer,
		TokensUsed: result.Tokens,
		LatencyMs:  result.LatencyMs,
		CreatedAt:  time.Now(),
	}
	if err := s.publisher.Publish(ctx, record); err != nil {
		s.logger.Warn("audit publish failed", "err", err)
	}
}
