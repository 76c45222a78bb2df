package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"askio/internal/platform/qdrant"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
)

// IngestResult reports what one ingest call produced.
type IngestResult struct {
	DocumentID uint `json:"document_id"`
	ChunkCount int  `json:"chunk_count"`
}

// IngestService turns raw document text into retrievable chunks: it splits
// the text, persists the document and chunk rows atomically, then embeds and
// upserts every chunk into the vector index.
type IngestService struct {
	documents DocumentStore
	retriever *Retriever

	chunkSize    int
	chunkOverlap int
	logger       *slog.Logger
}

func NewIngestService(documents DocumentStore, retriever *Retriever, chunkSize, chunkOverlap int, logger *slog.Logger) *IngestService {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap <= 0 || chunkOverlap >= chunkSize {
		chunkOverlap = defaultChunkOverlap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		documents:    documents,
		retriever:    retriever,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Ingest splits content, persists the document with its chunks in one
// transaction, and indexes each chunk under a deterministic point id.
// Any failure is fatal for this document only; other documents of a batch
// upload proceed independently.
func (s *IngestService) Ingest(ctx context.Context, filename, content string) (*IngestResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "untitled.txt"
	}

	texts := SplitText(content, s.chunkSize, s.chunkOverlap)
	if len(texts) == 0 {
		return nil, ErrInvalidInput
	}

	doc, chunks, err := s.documents.CreateWithChunks(ctx, filename, texts)
	if err != nil {
		return nil, fmt.Errorf("persist document %q failed: %w", filename, err)
	}

	for _, chunk := range chunks {
		payload := qdrant.Payload{
			DocumentID: doc.ID,
			ChunkID:    chunk.ID,
			ChunkIndex: chunk.ChunkIndex,
			Filename:   doc.Filename,
			Text:       chunk.Text,
		}
		pointID := PointID(doc.ID, chunk.ChunkIndex)
		if err := s.retriever.Ingest(ctx, pointID, chunk.Text, payload); err != nil {
			return nil, fmt.Errorf("index document %q failed: %w", filename, err)
		}
	}

	s.logger.Info("document ingested", "document_id", doc.ID, "filename", doc.Filename, "chunks", len(chunks))
	return &IngestResult{DocumentID: doc.ID, ChunkCount: len(chunks)}, nil
}
