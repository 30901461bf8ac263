package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Topic       string    `gorm:"size:255;not null" json:"topic"`
	AuthorID    uuid.UUID `gorm:"type:uuid;not null" json:"author_id"`
	Author      User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	// Không đặt default ở DB: gorm bỏ qua giá trị zero khi cột có default,
	// khiến IsPublic=false không bao giờ lưu được. Giá trị mặc định set ở code.
	IsPublic    bool      `json:"is_public"`
	Views       int       `gorm:"default:0" json:"views"` // tăng mỗi lần xem chi tiết
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Chapters    []Chapter          `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:CourseID" json:"-"`
	Bookmarks   []CourseBookmark   `gorm:"foreignKey:CourseID" json:"-"`
}
