package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
	"github.com/vnkhanh/interview-prep-backend/services"
	"github.com/vnkhanh/interview-prep-backend/utils"
)

// Tạo podcast cho một chương, chỉ tác giả khóa học. Trả về job id ngay,
// pipeline chạy nền, FE theo dõi tiến độ qua WebSocket /ws/podcasts/:id
func GeneratePodcast(c *gin.Context) {
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

	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy khóa học"})
		return
	}
	if !services.CanWriteCourse(&course, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chỉ tác giả được tạo podcast"})
		return
	}

	var chapter models.Chapter
	if err := db.Where("id = ? AND course_id = ?", chapterID, courseID).First(&chapter).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương trong khóa học"})
		return
	}
	if chapter.Content == nil || *chapter.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chương chưa có nội dung để tạo podcast"})
		return
	}

	// Đang có job processing cho chương này thì không tạo thêm
	var processing int64
	db.Model(&models.Podcast{}).
		Where("chapter_id = ? AND status = ?", chapterID, models.PodcastStatusProcessing).
		Count(&processing)
	if processing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Chương này đang có podcast được xử lý"})
		return
	}

	// Podcast ready cũ sẽ bị thay: xóa record và file audio cũ
	var old models.Podcast
	if err := db.Where("chapter_id = ? AND status = ?", chapterID, models.PodcastStatusReady).First(&old).Error; err == nil {
		// Lỗi xóa file cũ không chặn job mới
		_ = utils.DeleteFileFromSupabase(old.AudioURL)
		db.Delete(&old)
	}

	podcast := models.Podcast{
		ID:        uuid.New(),
		ChapterID: chapterID,
		Title:     chapter.Title,
		Status:    models.PodcastStatusProcessing,
		CreatedBy: userID,
	}
	if err := db.Create(&podcast).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo podcast"})
		return
	}

	go services.ProcessPodcastJob(db, podcast.ID)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Đang tạo podcast, theo dõi tiến độ qua WebSocket",
		"podcast": podcast,
	})
}

// Danh sách podcast của một khóa học
func GetCoursePodcasts(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID khóa học không hợp lệ"})
		return
	}

	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy khóa học"})
		return
	}
	if !services.CanReadCourse(&course, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền truy cập khóa học"})
		return
	}

	var podcasts []models.Podcast
	chapterIDs := db.Model(&models.Chapter{}).Select("id").Where("course_id = ?", courseID)
	if err := db.Where("chapter_id IN (?)", chapterIDs).Order("created_at DESC").Find(&podcasts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách podcast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"podcasts": podcasts})
}

// Chi tiết một podcast
func GetPodcastDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID podcast không hợp lệ"})
		return
	}

	var podcast models.Podcast
	if err := db.Preload("Chapter").First(&podcast, "id = ?", podcastID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy podcast"})
		return
	}

	var course models.Course
	if err := db.First(&course, "id = ?", podcast.Chapter.CourseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy khóa học của podcast"})
		return
	}
	if !services.CanReadCourse(&course, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Không có quyền truy cập podcast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"podcast": podcast})
}

// Xóa podcast, chỉ tác giả khóa học. Xóa cả file audio trên storage.
func DeletePodcast(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	podcastID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID podcast không hợp lệ"})
		return
	}

	var podcast models.Podcast
	if err := db.Preload("Chapter").First(&podcast, "id = ?", podcastID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy podcast"})
		return
	}

	var course models.Course
	if err := db.First(&course, "id = ?", podcast.Chapter.CourseID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy khóa học của podcast"})
		return
	}
	if !services.CanWriteCourse(&course, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chỉ tác giả được xóa podcast"})
		return
	}

	if podcast.AudioURL != "" {
		if err := utils.DeleteFileFromSupabase(podcast.AudioURL); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi xóa file audio"})
			return
		}
	}

	if err := db.Delete(&podcast).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi xóa podcast"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa podcast thành công"})
}
