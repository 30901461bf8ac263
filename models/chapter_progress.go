package models

import (
	"time"

	"github.com/google/uuid"
)

// Tiến độ từng chương của một user. Chỉ tồn tại khi user còn ghi danh
// khóa học chứa chương đó — unenroll phải xóa kèm trong cùng transaction.
type ChapterProgress struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_chapter_user" json:"chapter_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_progress_chapter_user" json:"user_id"`

	IsCompleted bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Chapter Chapter `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	User    User    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
