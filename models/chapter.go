package models

import (
	"time"

	"github.com/google/uuid"
)

type Chapter struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_chapter_course_order" json:"course_id"`
	Course      Course    `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Content     *string   `gorm:"type:text" json:"content,omitempty"` // nội dung sinh bởi AI, null khi chưa tạo
	OrderIndex  int       `gorm:"not null;uniqueIndex:idx_chapter_course_order" json:"order_index"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Progress []ChapterProgress `gorm:"foreignKey:ChapterID" json:"-"`
}
