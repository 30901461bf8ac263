package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
)

// Thống kê học tập của user: ghi danh, hoàn thành, phỏng vấn, điểm TB
func GetUserStats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	var enrolledCount int64
	db.Model(&models.CourseEnrollment{}).Where("user_id = ?", userID).Count(&enrolledCount)

	var completedCount int64
	db.Model(&models.CourseEnrollment{}).
		Where("user_id = ? AND is_completed = true", userID).Count(&completedCount)

	var createdCourses int64
	db.Model(&models.Course{}).Where("author_id = ?", userID).Count(&createdCourses)

	var bookmarkedCount int64
	db.Model(&models.CourseBookmark{}).Where("user_id = ?", userID).Count(&bookmarkedCount)

	var interviewCount int64
	db.Model(&models.Interview{}).Where("user_id = ?", userID).Count(&interviewCount)

	var completedInterviews int64
	db.Model(&models.Interview{}).
		Where("user_id = ? AND status = ?", userID, "completed").Count(&completedInterviews)

	// Điểm phỏng vấn trung bình của các phiên đã hoàn thành
	var avgScore *float64
	db.Model(&models.Interview{}).
		Where("user_id = ? AND status = ? AND score IS NOT NULL", userID, "completed").
		Select("AVG(score)").Scan(&avgScore)

	c.JSON(http.StatusOK, gin.H{
		"enrolled_courses":     enrolledCount,
		"completed_courses":    completedCount,
		"created_courses":      createdCourses,
		"bookmarked_courses":   bookmarkedCount,
		"total_interviews":     interviewCount,
		"completed_interviews": completedInterviews,
		"avg_interview_score":  avgScore,
	})
}

// Thống kê toàn hệ thống cho admin
func GetAdminStats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	var courseCount int64
	db.Model(&models.Course{}).Count(&courseCount)

	var enrollmentCount int64
	db.Model(&models.CourseEnrollment{}).Count(&enrollmentCount)

	var interviewCount int64
	db.Model(&models.Interview{}).Count(&interviewCount)

	var problemCount int64
	db.Model(&models.Problem{}).Count(&problemCount)

	var podcastCount int64
	db.Model(&models.Podcast{}).Where("status = ?", models.PodcastStatusReady).Count(&podcastCount)

	c.JSON(http.StatusOK, gin.H{
		"total_users":       userCount,
		"total_courses":     courseCount,
		"total_enrollments": enrollmentCount,
		"total_interviews":  interviewCount,
		"total_problems":    problemCount,
		"ready_podcasts":    podcastCount,
	})
}
