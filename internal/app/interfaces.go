package app

import (
	"context"
	"time"

	"askio/internal/ai"
	"askio/internal/model"
	"askio/internal/platform/qdrant"
)

// Collaborator boundaries of the pipelines. Services receive these through
// their constructors so every external system can be substituted in tests.

// Generator produces a completion for a prompt within the given bounds.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts ai.GenerateOptions) (ai.Generation, error)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex stores and queries embedded chunks.
type VectorIndex interface {
	Upsert(ctx context.Context, points []qdrant.Point) error
	Search(ctx context.Context, vector []float32, limit int) ([]qdrant.Hit, error)
}

// AnswerCache stores finished answers under their fingerprint key.
type AnswerCache interface {
	Get(ctx context.Context, key string) (*model.CachedAnswer, bool, error)
	Set(ctx context.Context, key string, answer model.CachedAnswer, ttl time.Duration) error
}

// AuditPublisher enqueues a query record for asynchronous persistence.
// Delivery is at-most-once, best effort.
type AuditPublisher interface {
	Publish(ctx context.Context, record model.QueryRecord) error
}

// ChunkResolver maps chunk ids to their owning document's filename.
type ChunkResolver interface {
	ResolveSources(ctx context.Context, chunkIDs []uint) (map[uint]string, error)
}

// DocumentStore persists a document with its chunks atomically.
type DocumentStore interface {
	CreateWithChunks(ctx context.Context, filename string, texts []string) (*model.Document, []model.Chunk, error)
}
