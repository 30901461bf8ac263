package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
)

// Danh sách bài tập DSA, filter theo difficulty/topic + search + phân trang
func GetProblems(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := db.Model(&models.Problem{})

	if difficulty := c.Query("difficulty"); difficulty != "" {
		query = query.Where("difficulty = ?", difficulty)
	}
	if topic := c.Query("topic"); topic != "" {
		query = query.Where("topic = ?", topic)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var problems []models.Problem
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&problems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách bài tập"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"problems": problems,
		"pagination": gin.H{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

// Chi tiết bài tập theo slug
func GetProblemBySlug(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var problem models.Problem
	if err := db.Where("slug = ?", c.Param("slug")).First(&problem).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài tập"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"problem": problem})
}

// ==== ADMIN QUẢN LÝ BÀI TẬP ====

// uniqueProblemSlug sinh slug từ title, thêm hậu tố nếu trùng với bài khác.
// excludeID: bỏ qua chính bài đang sửa khi kiểm tra trùng.
func uniqueProblemSlug(db *gorm.DB, title string, excludeID uuid.UUID) string {
	problemSlug := slug.Make(title)

	query := db.Model(&models.Problem{}).Where("slug = ?", problemSlug)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	query.Count(&count)
	if count > 0 {
		problemSlug = problemSlug + "-" + uuid.New().String()[:8]
	}
	return problemSlug
}

type CreateProblemInput struct {
	Title       string `json:"title" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Topic       string `json:"topic"`
	Description string `json:"description" binding:"required"`
	Examples    string `json:"examples"`
	Constraints string `json:"constraints"`
}

func CreateProblem(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	var input CreateProblemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	problemSlug := uniqueProblemSlug(db, input.Title, uuid.Nil)

	problem := models.Problem{
		ID:          uuid.New(),
		Title:       input.Title,
		Slug:        problemSlug,
		Difficulty:  input.Difficulty,
		Topic:       input.Topic,
		Description: input.Description,
		Examples:    input.Examples,
		Constraints: input.Constraints,
		CreatedBy:   userID,
	}
	if err := db.Create(&problem).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo bài tập"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo bài tập thành công",
		"problem": problem,
	})
}

type UpdateProblemInput struct {
	Title       *string `json:"title"`
	Difficulty  *string `json:"difficulty"`
	Topic       *string `json:"topic"`
	Description *string `json:"description"`
	Examples    *string `json:"examples"`
	Constraints *string `json:"constraints"`
}

func UpdateProblem(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	problemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài tập không hợp lệ"})
		return
	}

	var problem models.Problem
	if err := db.First(&problem, "id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài tập"})
		return
	}

	var input UpdateProblemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
		updates["slug"] = uniqueProblemSlug(db, *input.Title, problem.ID)
	}
	if input.Difficulty != nil {
		updates["difficulty"] = *input.Difficulty
	}
	if input.Topic != nil {
		updates["topic"] = *input.Topic
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Examples != nil {
		updates["examples"] = *input.Examples
	}
	if input.Constraints != nil {
		updates["constraints"] = *input.Constraints
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Không có trường nào để cập nhật"})
		return
	}

	if err := db.Model(&problem).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi cập nhật bài tập"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cập nhật bài tập thành công",
		"problem": problem,
	})
}

func DeleteProblem(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	problemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID bài tập không hợp lệ"})
		return
	}

	var problem models.Problem
	if err := db.First(&problem, "id = ?", problemID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy bài tập"})
		return
	}

	if err := db.Delete(&problem).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi xóa bài tập"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Xóa bài tập thành công"})
}
