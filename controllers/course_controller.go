package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
	"github.com/vnkhanh/interview-prep-backend/services"
)

// Lấy userID từ context, trả uuid.Nil nếu là khách (optional auth)
func currentUserID(c *gin.Context) uuid.UUID {
	userIDStr, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil
	}
	return userID
}

// Item trong danh sách khóa học, kèm các cờ theo viewer
type courseListItem struct {
	models.Course
	AuthorName         string `json:"author_name"`
	ChapterCount       int64  `json:"chapter_count"`
	EnrollmentCount    int64  `json:"enrollment_count"`
	IsEnrolled         bool   `json:"is_enrolled"`
	IsBookmarked       bool   `json:"is_bookmarked"`
	ProgressPercentage int    `json:"progress_percentage"`
}

// Danh sách khóa học, hỗ trợ search + filter + sort + phân trang.
// filter: all | my-courses | bookmarked | enrolled
// sort:   recent (mặc định) | popular | oldest
func GetCourses(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}
	offset := (page - 1) * limit

	search := c.Query("search")
	filter := c.DefaultQuery("filter", "all")
	sort := c.DefaultQuery("sort", "recent")

	query := db.Model(&models.Course{})

	// Khách chỉ thấy khóa public, user thấy thêm khóa của mình
	if userID == uuid.Nil {
		query = query.Where("is_public = ?", true)
	} else {
		query = query.Where("is_public = ? OR author_id = ?", true, userID)
	}

	switch filter {
	case "my-courses":
		if userID == uuid.Nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Cần đăng nhập để xem khóa học của bạn"})
			return
		}
		query = query.Where("author_id = ?", userID)
	case "bookmarked":
		if userID == uuid.Nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Cần đăng nhập để xem khóa học đã lưu"})
			return
		}
		query = query.Where("id IN (?)",
			db.Model(&models.CourseBookmark{}).Select("course_id").Where("user_id = ?", userID))
	case "enrolled":
		if userID == uuid.Nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Cần đăng nhập để xem khóa học đã ghi danh"})
			return
		}
		query = query.Where("id IN (?)",
			db.Model(&models.CourseEnrollment{}).Select("course_id").Where("user_id = ?", userID))
	}

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR topic ILIKE ?", like, like, like)
	}

	switch sort {
	case "popular":
		query = query.Order("views DESC")
	case "oldest":
		query = query.Order("created_at ASC")
	default:
		query = query.Order("created_at DESC")
	}

	var total int64
	query.Count(&total)

	var courses []models.Course
	if err := query.Limit(limit).Offset(offset).Find(&courses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách khóa học"})
		return
	}

	items := make([]courseListItem, 0, len(courses))
	for _, course := range courses {
		item := courseListItem{Course: course}

		var author models.User
		if err := db.Select("full_name").First(&author, "id = ?", course.AuthorID).Error; err == nil {
			item.AuthorName = author.FullName
		}

		db.Model(&models.Chapter{}).Where("course_id = ?", course.ID).Count(&item.ChapterCount)
		db.Model(&models.CourseEnrollment{}).Where("course_id = ?", course.ID).Count(&item.EnrollmentCount)

		if userID != uuid.Nil {
			var enrollment models.CourseEnrollment
			if err := db.Where("course_id = ? AND user_id = ?", course.ID, userID).First(&enrollment).Error; err == nil {
				item.IsEnrolled = true
				item.ProgressPercentage = enrollment.ProgressPercentage
			}
			var bookmarkCount int64
			db.Model(&models.CourseBookmark{}).
				Where("course_id = ? AND user_id = ?", course.ID, userID).Count(&bookmarkCount)
			item.IsBookmarked = bookmarkCount > 0
		}

		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"courses": items,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// Chapter kèm tiến độ của viewer
type chapterWithProgress struct {
	models.Chapter
	IsCompleted bool `json:"is_completed"`
}

// Chi tiết khóa học: tăng views, chạm lastAccessedAt nếu đã ghi danh,
// fold tiến độ từng chương của viewer vào danh sách chương
func GetCourseDetail(c *gin.Context) {
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

	// Tăng lượt xem
	db.Model(&course).Update("views", gorm.Expr("views + 1"))
	course.Views++

	var chapters []models.Chapter
	db.Where("course_id = ?", courseID).Order("order_index ASC").Find(&chapters)

	// Map chapterID -> hoàn thành hay chưa
	completedByChapter := map[uuid.UUID]bool{}
	isEnrolled := false
	progressPercentage := 0
	if userID != uuid.Nil {
		var enrollment models.CourseEnrollment
		if err := db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&enrollment).Error; err == nil {
			isEnrolled = true
			progressPercentage = enrollment.ProgressPercentage
			services.TouchCourseAccess(db, courseID, userID)

			var progresses []models.ChapterProgress
			chapterIDs := db.Model(&models.Chapter{}).Select("id").Where("course_id = ?", courseID)
			db.Where("user_id = ? AND chapter_id IN (?)", userID, chapterIDs).Find(&progresses)
			for _, p := range progresses {
				completedByChapter[p.ChapterID] = p.IsCompleted
			}
		}
	}

	chapterItems := make([]chapterWithProgress, 0, len(chapters))
	for _, ch := range chapters {
		chapterItems = append(chapterItems, chapterWithProgress{
			Chapter:     ch,
			IsCompleted: completedByChapter[ch.ID],
		})
	}

	isBookmarked := false
	if userID != uuid.Nil {
		var bookmarkCount int64
		db.Model(&models.CourseBookmark{}).
			Where("course_id = ? AND user_id = ?", courseID, userID).Count(&bookmarkCount)
		isBookmarked = bookmarkCount > 0
	}

	var author models.User
	db.Select("id, full_name").First(&author, "id = ?", course.AuthorID)

	var enrollmentCount int64
	db.Model(&models.CourseEnrollment{}).Where("course_id = ?", courseID).Count(&enrollmentCount)

	c.JSON(http.StatusOK, gin.H{
		"course":              course,
		"author_name":         author.FullName,
		"chapters":            chapterItems,
		"is_enrolled":         isEnrolled,
		"is_bookmarked":       isBookmarked,
		"progress_percentage": progressPercentage,
		"enrollment_count":    enrollmentCount,
		"is_author":           services.CanWriteCourse(&course, userID),
	})
}

// ==== TẠO KHÓA HỌC ====

type GenerateOutlineInput struct {
	Topic       string `json:"topic" binding:"required"`
	NumChapters int    `json:"num_chapters"`
}

// Sinh khung khóa học bằng Gemini, FE cho user chỉnh rồi gọi CreateCourse
func GenerateCourseOutline(c *gin.Context) {
	var input GenerateOutlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outline, err := services.GenerateCourseOutline(input.Topic, input.NumChapters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể sinh khung khóa học: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"outline": outline})
}

type CreateChapterInput struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Content     *string `json:"content"`
	OrderIndex  int     `json:"order_index" binding:"required,min=1"`
}

type CreateCourseInput struct {
	Title       string               `json:"title" binding:"required"`
	Description string               `json:"description" binding:"required"`
	Topic       string               `json:"topic" binding:"required"`
	IsPublic    *bool                `json:"is_public"`
	Chapters    []CreateChapterInput `json:"chapters" binding:"required,min=1,dive"`
}

// Tạo khóa học kèm chương trong một transaction
func CreateCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	var input CreateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	tx := db.Begin()

	course := models.Course{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Topic:       input.Topic,
		AuthorID:    userID,
		IsPublic:    isPublic,
	}
	if err := tx.Create(&course).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo khóa học"})
		return
	}

	for _, chIn := range input.Chapters {
		chapter := models.Chapter{
			ID:          uuid.New(),
			CourseID:    course.ID,
			Title:       chIn.Title,
			Description: chIn.Description,
			Content:     chIn.Content,
			OrderIndex:  chIn.OrderIndex,
		}
		if err := tx.Create(&chapter).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo chương: " + chIn.Title})
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu khóa học"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo khóa học thành công",
		"course":  course,
	})
}

// Sinh nội dung một chương bằng Gemini, chỉ tác giả được gọi
func GenerateChapterContent(c *gin.Context) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Chỉ tác giả được sinh nội dung chương"})
		return
	}

	var chapter models.Chapter
	if err := db.Where("id = ? AND course_id = ?", chapterID, courseID).First(&chapter).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy chương trong khóa học"})
		return
	}

	content, err := services.GenerateChapterContent(course.Title, chapter.Title, chapter.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể sinh nội dung chương: " + err.Error()})
		return
	}

	if err := db.Model(&chapter).Update("content", content).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu nội dung chương"})
		return
	}

	chapter.Content = &content
	c.JSON(http.StatusOK, gin.H{
		"message": "Sinh nội dung chương thành công",
		"chapter": chapter,
	})
}

type UpdateCourseInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Topic       *string `json:"topic"`
	IsPublic    *bool   `json:"is_public"`
}

// Cập nhật thông tin khóa học, chỉ tác giả
func UpdateCourse(c *gin.Context) {
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
	if !services.CanWriteCourse(&course, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chỉ tác giả được sửa khóa học"})
		return
	}

	var input UpdateCourseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Topic != nil {
		updates["topic"] = *input.Topic
	}
	if input.IsPublic != nil {
		updates["is_public"] = *input.IsPublic
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có trường nào để cập nhật"})
		return
	}

	if err := db.Model(&course).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi cập nhật khóa học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật khóa học thành công",
		"course":  course,
	})
}

// Xóa khóa học, chỉ tác giả. Chương, ghi danh, tiến độ, bookmark
// xóa theo nhờ ràng buộc OnDelete:CASCADE.
func DeleteCourse(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	courseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID khóa học không hợp lệ"})
		return
	}

	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy khóa học"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tìm khóa học"})
		return
	}
	if !services.CanWriteCourse(&course, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Chỉ tác giả được xóa khóa học"})
		return
	}

	if err := db.Delete(&course).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi xóa khóa học"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa khóa học thành công"})
}
