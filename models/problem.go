package models

import (
	"time"

	"github.com/google/uuid"
)

// Bài tập DSA cho phần luyện giải thuật
type Problem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Slug        string    `gorm:"size:255;uniqueIndex;not null" json:"slug"` // slug cho URL thân thiện
	Difficulty  string    `gorm:"size:20;default:'easy'" json:"difficulty"`  // easy | medium | hard
	Topic       string    `gorm:"size:100" json:"topic"`                     // array, graph, dp,...
	Description string    `gorm:"type:text;not null" json:"description"`
	Examples    string    `gorm:"type:text" json:"examples"`
	Constraints string    `gorm:"type:text" json:"constraints"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
