package model

import "time"

// QueryRecord is an append-only audit row for one answered question.
// It is written asynchronously and must never block the response path.
type QueryRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Question   string    `gorm:"type:text;not null" json:"question"`
	Answer     string    `gorm:"type:text;not null" json:"answer"`
	TokensUsed int       `gorm:"not null;default:0" json:"tokens_used"`
	LatencyMs  float64   `gorm:"not null;default:0" json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}
