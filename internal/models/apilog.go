package models

import (
	"time"
)

// APILog records one mutating API request for auditing. The payload column
// keeps the request body as JSON.
type APILog struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Method    string    `gorm:"size:16;not null" json:"method"`
	Path      string    `gorm:"size:512;not null" json:"path"`
	Status    int       `gorm:"not null" json:"status"`
	UserID    *uint64   `gorm:"index" json:"userId"`
	Payload   JSON      `gorm:"type:json" json:"payload"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName overrides the table name for APILog
func (APILog) TableName() string {
	return "api_logs"
}
