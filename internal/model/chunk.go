package model

import "time"

// Chunk is one retrievable fragment of a document. Immutable once created.
// ChunkIndex is contiguous starting at 0 within its document.
type Chunk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uint      `gorm:"not null;index" json:"document_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	ChunkIndex int       `gorm:"not null" json:"chunk_index"`
	CreatedAt  time.Time `json:"created_at"`
}
