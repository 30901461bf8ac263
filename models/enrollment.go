package models

import (
	"time"

	"github.com/google/uuid"
)

// Ghi danh khóa học: mỗi cặp (course, user) tối đa một bản ghi.
// ProgressPercentage và IsCompleted là giá trị dẫn xuất, chỉ được
// tính lại trong service, client không bao giờ set trực tiếp.
type CourseEnrollment struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user" json:"course_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_course_user" json:"user_id"`

	EnrolledAt         time.Time  `gorm:"autoCreateTime" json:"enrolled_at"`
	IsCompleted        bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"` // chỉ set một lần khi đạt 100%
	ProgressPercentage int        `gorm:"default:0" json:"progress_percentage"`
	LastAccessedAt     time.Time  `json:"last_accessed_at"`

	Course Course `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	User   User   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
