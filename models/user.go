package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin" // Quản trị hệ thống
	RoleUser  UserRole = "user"  // Người dùng luyện phỏng vấn
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string    `gorm:"size:150;not null" json:"full_name"`
	Email     string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      UserRole  `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status    *bool     `gorm:"default:true" json:"status"` // false: tài khoản bị khóa
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Courses     []Course           `gorm:"foreignKey:AuthorID" json:"courses,omitempty"`
	Enrollments []CourseEnrollment `gorm:"foreignKey:UserID" json:"-"`
	Interviews  []Interview        `gorm:"foreignKey:UserID" json:"-"`
}
