package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseBookmark struct {
	CourseID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"course_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Course Course `gorm:"constraint:OnDelete:CASCADE;" json:"course,omitempty"`
	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
