package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"askio/internal/model"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// CreateWithChunks persists the document row and its chunk rows in a single
// transaction. The document is inserted first so the chunks can reference its
// id; chunk_index runs contiguously from 0 in the order of texts. Either both
// commit or neither does.
func (r *DocumentRepository) CreateWithChunks(ctx context.Context, filename string, texts []string) (*model.Document, []model.Chunk, error) {
	if len(texts) == 0 {
		return nil, nil, fmt.Errorf("create document %q failed: no chunks", filename)
	}

	doc := &model.Document{
		Filename:   filename,
		ChunkCount: len(texts),
	}
	var chunks []model.Chunk

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doc).Error; err != nil {
			return fmt.Errorf("create document failed: %w", err)
		}
		chunks = make([]model.Chunk, len(texts))
		for i, text := range texts {
			chunks[i] = model.Chunk{
				DocumentID: doc.ID,
				Text:       text,
				ChunkIndex: i,
			}
		}
		if err := tx.Create(&chunks).Error; err != nil {
			return fmt.Errorf("create chunks failed: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return doc, chunks, nil
}

func (r *DocumentRepository) List(ctx context.Context) ([]model.Document, error) {
	var list []model.Document
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}
	return list, nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uint) (*model.Document, error) {
	var doc model.Document
	if err := r.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &doc, nil
}

// DeleteByID removes a document and all its chunks in one transaction.
func (r *DocumentRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&model.Chunk{}).Error; err != nil {
			return fmt.Errorf("delete chunks failed: %w", err)
		}
		if err := tx.Delete(&model.Document{}, id).Error; err != nil {
			return fmt.Errorf("delete document failed: %w", err)
		}
		return nil
	})
}
