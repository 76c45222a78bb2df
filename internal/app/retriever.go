package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"askio/internal/platform/qdrant"
)

// Retriever wraps the embedding provider and the vector index behind the two
// operations the pipelines need: ingestion-time upsert and query-time top-k
// similarity search.
type Retriever struct {
	embedder Embedder
	index    VectorIndex
}

func NewRetriever(embedder Embedder, index VectorIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// PointID derives the deterministic vector-point id for a chunk from its
// document id and chunk index. Re-ingesting the same chunk position yields
// the same id, so upserts overwrite instead of duplicating.
func PointID(documentID uint, chunkIndex int) string {
	name := fmt.Sprintf("chunk:%d:%d", documentID, chunkIndex)
	return uuid.NewMD5(uuid.NameSpaceOID, []byte(name)).String()
}

// Ingest embeds text and upserts it under the given point id.
func (r *Retriever) Ingest(ctx context.Context, pointID, text string, payload qdrant.Payload) error {
	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed chunk failed: %w", err)
	}
	point := qdrant.Point{ID: pointID, Vector: vector, Payload: payload}
	if err := r.index.Upsert(ctx, []qdrant.Point{point}); err != nil {
		return fmt.Errorf("upsert chunk failed: %w", err)
	}
	return nil
}

// Query embeds the question and returns up to k hits ordered by descending
// similarity. An empty slice means nothing matched; a non-nil error means
// the index or the embedder was unavailable, which callers must not mask as
// an empty result.
func (r *Retriever) Query(ctx context.Context, question string, k int) ([]qdrant.Hit, error) {
	vector, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question failed: %w", err)
	}
	hits, err := r.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	return hits, nil
}
