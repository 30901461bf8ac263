package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/interview-prep-backend/models"
)

func newProblemRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("mở sqlite test DB thất bại: %v", err)
	}
	if err := db.AutoMigrate(&models.Problem{}); err != nil {
		t.Fatalf("migrate thất bại: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Set("user_id", uuid.New().String())
		c.Next()
	})
	r.POST("/problems", CreateProblem)
	r.PUT("/problems/:id", UpdateProblem)
	return r, db
}

func postProblem(t *testing.T, r *gin.Engine, title string) models.Problem {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"title":       title,
		"difficulty":  "easy",
		"description": "desc",
	})
	req := httptest.NewRequest(http.MethodPost, "/problems", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("tạo bài tập phải trả 201, nhận %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Problem models.Problem `json:"problem"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response thất bại: %v", err)
	}
	return resp.Problem
}

func TestCreateProblemSlug(t *testing.T) {
	r, _ := newProblemRouter(t)

	first := postProblem(t, r, "Two Sum")
	if first.Slug != "two-sum" {
		t.Fatalf("slug sai: %q", first.Slug)
	}

	// Trùng title: slug phải có hậu tố, không đụng unique index
	second := postProblem(t, r, "Two Sum")
	if second.Slug == first.Slug {
		t.Fatalf("slug trùng không được phép: %q", second.Slug)
	}
}

func TestUpdateProblemSlugCollision(t *testing.T) {
	r, db := newProblemRouter(t)

	first := postProblem(t, r, "Two Sum")
	other := postProblem(t, r, "Valid Parentheses")

	// Đổi title của bài khác sang title đã tồn tại: slug phải được
	// thêm hậu tố thay vì vỡ unique index
	body, _ := json.Marshal(map[string]string{"title": "Two Sum"})
	req := httptest.NewRequest(http.MethodPut, "/problems/"+other.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update phải trả 200, nhận %d: %s", w.Code, w.Body.String())
	}

	var updated models.Problem
	if err := db.First(&updated, "id = ?", other.ID).Error; err != nil {
		t.Fatalf("không tìm thấy bài tập: %v", err)
	}
	if updated.Slug == first.Slug {
		t.Fatalf("slug sau update trùng với bài khác: %q", updated.Slug)
	}

	// Đổi title của chính bài đó sang title cũ của nó: slug giữ nguyên
	body, _ = json.Marshal(map[string]string{"title": "Two Sum"})
	req = httptest.NewRequest(http.MethodPut, "/problems/"+first.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("update cùng title phải trả 200, nhận %d: %s", w.Code, w.Body.String())
	}
	updated = models.Problem{}
	if err := db.First(&updated, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("không tìm thấy bài tập: %v", err)
	}
	if updated.Slug != "two-sum" {
		t.Fatalf("slug của chính bài đó phải giữ nguyên, nhận %q", updated.Slug)
	}
}
