package models

import "time"

// Channel represents a discussion channel grouping posts by topic.
type Channel struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `gorm:"not null;index" json:"created_by"`
	Creator     User   `gorm:"foreignKey:CreatedBy" json:"-"`
	// PostCount is not persisted; computed at query time
	PostCount int64     `gorm:"->;-:migration" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}
