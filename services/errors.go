package services

import "errors"

// Các lỗi nghiệp vụ của phần khóa học. Controller dựa vào đây để map
// sang HTTP status, service không bao giờ tự trả response.
var (
	ErrCourseNotFound  = errors.New("không tìm thấy khóa học")
	ErrChapterNotFound = errors.New("không tìm thấy chương")
	ErrAlreadyEnrolled = errors.New("đã ghi danh khóa học này")
	ErrNotEnrolled     = errors.New("chưa ghi danh khóa học này")
	ErrAccessDenied    = errors.New("không có quyền truy cập khóa học")
)
