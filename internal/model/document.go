package model

import "time"

// Document is an ingested source file. It owns zero or more Chunks;
// deleting a document cascades to its chunks (handled by the repository).
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	ChunkCount int       `gorm:"not null;default:0" json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
