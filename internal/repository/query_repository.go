package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"askio/internal/model"
)

type QueryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) *QueryRepository {
	return &QueryRepository{db: db}
}

func (r *QueryRepository) Create(ctx context.Context, record *model.QueryRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create query record failed: %w", err)
	}
	return nil
}

func (r *QueryRepository) ListRecent(ctx context.Context, limit int) ([]model.QueryRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var records []model.QueryRecord
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list query records failed: %w", err)
	}
	return records, nil
}
