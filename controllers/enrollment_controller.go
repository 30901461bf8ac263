package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
	"github.com/vnkhanh/interview-prep-backend/services"
)

// Ghi danh khóa học
func EnrollCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID khóa học không hợp lệ"})
		return
	}

	enrollment, err := services.EnrollCourse(db, courseID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrAlreadyEnrolled):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi ghi danh khóa học"})
		}
		return
	}

	// Báo cho tác giả có học viên mới (trừ khi tự ghi danh khóa của mình)
	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err == nil && course.AuthorID != userID {
		CreateNotification(db, course.AuthorID, "Học viên mới",
			"Có học viên mới ghi danh khóa học \""+course.Title+"\"", "enrollment", &course.ID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Ghi danh thành công",
		"enrollment": enrollment,
	})
}

// Hủy ghi danh: xóa luôn tiến độ các chương trong khóa học
func UnenrollCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID khóa học không hợp lệ"})
		return
	}

	if err := services.UnenrollCourse(db, courseID, userID); err != nil {
		if errors.Is(err, services.ErrNotEnrolled) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi hủy ghi danh"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hủy ghi danh thành công"})
}

type UpdateChapterProgressInput struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// Đánh dấu hoàn thành / bỏ hoàn thành một chương và tính lại tiến độ
func UpdateChapterProgress(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID khóa học không hợp lệ"})
		return
	}
	chapterID, err := uuid.Parse(c.Param("chapterId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID chương không hợp lệ"})
		return
	}

	var input UpdateChapterProgressInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.SetChapterCompletion(db, courseID, chapterID, userID, *input.IsCompleted)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotEnrolled):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrChapterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi cập nhật tiến độ"})
		}
		return
	}

	// Chúc mừng khi vừa hoàn thành khóa học
	if result.CourseCompleted {
		var course models.Course
		if err := db.First(&course, "id = ?", courseID).Error; err == nil {
			CreateNotification(db, userID, "Hoàn thành khóa học",
				"Chúc mừng bạn đã hoàn thành khóa học \""+course.Title+"\"", "course_completed", &course.ID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Cập nhật tiến độ thành công",
		"progress": result,
	})
}

// Bookmark / bỏ bookmark khóa học
func ToggleCourseBookmark(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID khóa học không hợp lệ"})
		return
	}

	bookmarked, err := services.ToggleCourseBookmark(db, courseID, userID)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi bookmark khóa học"})
		return
	}

	message := "Đã bỏ bookmark khóa học"
	if bookmarked {
		message = "Đã bookmark khóa học"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       message,
		"is_bookmarked": bookmarked,
	})
}
