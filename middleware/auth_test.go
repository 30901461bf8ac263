package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/interview-prep-backend/config"
	"github.com/vnkhanh/interview-prep-backend/models"
	"github.com/vnkhanh/interview-prep-backend/utils"
)

func setupAuthTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("mở sqlite test DB thất bại: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate thất bại: %v", err)
	}
	config.DB = db

	r := gin.New()
	r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id")})
	})
	return r
}

func createAuthTestUser(t *testing.T, active bool) (models.User, string) {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		FullName: "Auth Test",
		Email:    uuid.New().String() + "@test.local",
		Password: "hashed",
		Role:     models.RoleUser,
		Status:   &active,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("tạo user thất bại: %v", err)
	}
	token, err := utils.GenerateToken(user.ID.String(), string(user.Role))
	if err != nil {
		t.Fatalf("tạo token thất bại: %v", err)
	}
	return user, token
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	r := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("thiếu header phải trả 401, nhận %d", w.Code)
	}
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	r := setupAuthTest(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer khong-hop-le")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("token rác phải trả 401, nhận %d", w.Code)
	}
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	r := setupAuthTest(t)
	user, token := createAuthTestUser(t, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("token hợp lệ phải qua được, nhận %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, user.ID.String()) {
		t.Fatalf("response phải chứa user_id, nhận %s", body)
	}
}

func TestAuthMiddlewareLockedAccount(t *testing.T) {
	r := setupAuthTest(t)
	_, token := createAuthTestUser(t, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("tài khoản bị khóa phải trả 403, nhận %d", w.Code)
	}
}
