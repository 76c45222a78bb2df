package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"askio/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

// ResolveSources maps chunk ids to the filename of their owning document.
// Unknown ids are simply absent from the result.
func (r *ChunkRepository) ResolveSources(ctx context.Context, chunkIDs []uint) (map[uint]string, error) {
	if len(chunkIDs) == 0 {
		return map[uint]string{}, nil
	}

	var rows []struct {
		ChunkID  uint
		Filename string
	}
	err := r.db.WithContext(ctx).
		Table("chunks").
		Select("chunks.id AS chunk_id, documents.filename AS filename").
		Joins("JOIN documents ON documents.id = chunks.document_id").
		Where("chunks.id IN ?", chunkIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("resolve chunk sources failed: %w", err)
	}

	sources := make(map[uint]string, len(rows))
	for _, row := range rows {
		sources[row.ChunkID] = row.Filename
	}
	return sources, nil
}

func (r *ChunkRepository) ListByDocumentID(ctx context.Context, documentID uint) ([]model.Chunk, error) {
	var chunks []model.Chunk
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("chunk_index ASC").
		Find(&chunks).Error
	if err != nil {
		return nil, fmt.Errorf("list chunks by document failed: %w", err)
	}
	return chunks, nil
}
