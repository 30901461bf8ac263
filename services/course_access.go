package services

import (
	"github.com/google/uuid"
	"github.com/vnkhanh/interview-prep-backend/models"
)

// Quy tắc truy cập khóa học gom về một chỗ, tránh mỗi handler chép
// một bản. Cả hai hàm là predicate thuần, không side effect.

// CanReadCourse: khóa học public ai cũng xem được, khóa học private
// chỉ tác giả. Viewer anonymous truyền uuid.Nil.
func CanReadCourse(course *models.Course, viewerID uuid.UUID) bool {
	return course.IsPublic || course.AuthorID == viewerID
}

// CanWriteCourse: chỉ tác giả được sửa/xóa, không có collaborator.
func CanWriteCourse(course *models.Course, viewerID uuid.UUID) bool {
	return viewerID != uuid.Nil && course.AuthorID == viewerID
}
