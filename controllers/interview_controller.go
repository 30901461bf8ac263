package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
	"github.com/vnkhanh/interview-prep-backend/services"
)

// Tạo phiên phỏng vấn thử. Form multipart: role, topic, difficulty,
// num_questions, resume (PDF, tùy chọn). Câu hỏi sinh bằng Gemini,
// có CV thì hỏi sâu theo kinh nghiệm trong CV.
func CreateInterview(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	role := c.PostForm("role")
	if role == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Thiếu vị trí ứng tuyển"})
		return
	}
	topic := c.PostForm("topic")
	difficulty := c.DefaultPostForm("difficulty", "medium")
	numQuestions, _ := strconv.Atoi(c.DefaultPostForm("num_questions", "5"))

	// CV tùy chọn, chỉ nhận PDF
	resumeText := ""
	if fileHeader, err := c.FormFile("resume"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Không đọc được file CV"})
			return
		}
		defer file.Close()

		resumeText, err = services.ExtractTextFromPDF(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "CV phải là file PDF hợp lệ"})
			return
		}
	}

	questions, err := services.GenerateInterviewQuestions(role, topic, difficulty, numQuestions, resumeText)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể sinh câu hỏi phỏng vấn: " + err.Error()})
		return
	}

	tx := db.Begin()

	interview := models.Interview{
		ID:         uuid.New(),
		UserID:     userID,
		Role:       role,
		Topic:      topic,
		Difficulty: difficulty,
		ResumeText: resumeText,
		Status:     "in_progress",
	}
	if err := tx.Create(&interview).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi tạo phiên phỏng vấn"})
		return
	}

	for i, q := range questions {
		question := models.InterviewQuestion{
			ID:          uuid.New(),
			InterviewID: interview.ID,
			OrderIndex:  i + 1,
			Question:    q,
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu câu hỏi"})
			return
		}
		interview.Questions = append(interview.Questions, question)
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu phiên phỏng vấn"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Tạo phiên phỏng vấn thành công",
		"interview": interview,
	})
}

// Danh sách phiên phỏng vấn của user
func GetInterviews(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	var interviews []models.Interview
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&interviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách phỏng vấn"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"interviews": interviews})
}

// Thống kê phỏng vấn của user: số phiên, điểm trung bình, theo từng chủ đề
func GetInterviewStats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	var total int64
	db.Model(&models.Interview{}).Where("user_id = ?", userID).Count(&total)

	var completed int64
	db.Model(&models.Interview{}).
		Where("user_id = ? AND status = ?", userID, "completed").Count(&completed)

	var avgScore *float64
	db.Model(&models.Interview{}).
		Where("user_id = ? AND status = ? AND score IS NOT NULL", userID, "completed").
		Select("AVG(score)").Scan(&avgScore)

	// Điểm trung bình theo chủ đề
	type topicStat struct {
		Topic    string  `json:"topic"`
		Count    int64   `json:"count"`
		AvgScore float64 `json:"avg_score"`
	}
	var byTopic []topicStat
	db.Model(&models.Interview{}).
		Where("user_id = ? AND status = ? AND score IS NOT NULL", userID, "completed").
		Select("topic, COUNT(*) as count, AVG(score) as avg_score").
		Group("topic").Scan(&byTopic)

	c.JSON(http.StatusOK, gin.H{
		"total_interviews":     total,
		"completed_interviews": completed,
		"avg_score":            avgScore,
		"by_topic":             byTopic,
	})
}

// Chi tiết phiên phỏng vấn kèm câu hỏi
func GetInterviewDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID phỏng vấn không hợp lệ"})
		return
	}

	var interview models.Interview
	if err := db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("id = ? AND user_id = ?", interviewID, userID).First(&interview).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy phiên phỏng vấn"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"interview": interview})
}

type SubmitAnswerInput struct {
	Answer string `json:"answer" binding:"required"`
}

// Nộp câu trả lời cho một câu hỏi, AI chấm ngay và trả feedback
func SubmitAnswer(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID phỏng vấn không hợp lệ"})
		return
	}
	questionID, err := uuid.Parse(c.Param("questionId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID câu hỏi không hợp lệ"})
		return
	}

	var input SubmitAnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var interview models.Interview
	if err := db.Where("id = ? AND user_id = ?", interviewID, userID).First(&interview).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy phiên phỏng vấn"})
		return
	}
	if interview.Status != "in_progress" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phiên phỏng vấn đã kết thúc"})
		return
	}

	var question models.InterviewQuestion
	if err := db.Where("id = ? AND interview_id = ?", questionID, interviewID).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy câu hỏi trong phiên phỏng vấn"})
		return
	}

	eval, err := services.EvaluateAnswer(question.Question, input.Answer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể chấm câu trả lời: " + err.Error()})
		return
	}

	updates := map[string]interface{}{
		"answer":     input.Answer,
		"evaluation": eval.Feedback,
		"score":      eval.Score,
	}
	if err := db.Model(&question).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lưu câu trả lời"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Nộp câu trả lời thành công",
		"score":      eval.Score,
		"evaluation": eval.Feedback,
	})
}

// Kết thúc phiên phỏng vấn: tính điểm trung bình các câu đã chấm,
// sinh nhận xét tổng kết, chuyển status sang completed
func CompleteInterview(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	interviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID phỏng vấn không hợp lệ"})
		return
	}

	var interview models.Interview
	if err := db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("id = ? AND user_id = ?", interviewID, userID).First(&interview).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy phiên phỏng vấn"})
		return
	}
	if interview.Status != "in_progress" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Phiên phỏng vấn đã kết thúc"})
		return
	}

	var sum float64
	var scored int
	var perQuestionFeedback []string
	for _, q := range interview.Questions {
		if q.Score != nil {
			sum += *q.Score
			scored++
			perQuestionFeedback = append(perQuestionFeedback, q.Evaluation)
		}
	}
	if scored == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Chưa có câu trả lời nào được chấm"})
		return
	}
	avg := sum / float64(scored)

	feedback, err := services.GenerateOverallFeedback(interview.Role, avg, perQuestionFeedback)
	if err != nil {
		// Không chặn việc kết thúc phiên vì lỗi sinh nhận xét
		feedback = ""
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       "completed",
		"score":        avg,
		"feedback":     feedback,
		"completed_at": &now,
	}
	if err := db.Model(&interview).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi kết thúc phiên phỏng vấn"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Kết thúc phiên phỏng vấn",
		"score":    avg,
		"feedback": feedback,
	})
}
