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

func newControllerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("mở sqlite test DB thất bại: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Chapter{},
		&models.CourseEnrollment{},
		&models.ChapterProgress{},
		&models.CourseBookmark{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate thất bại: %v", err)
	}
	return db
}

// Router test với user đã đăng nhập sẵn, bỏ qua JWT
func newEnrollmentRouter(db *gorm.DB, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Set("user_id", userID.String())
		c.Next()
	})
	r.POST("/courses/:id/enroll", EnrollCourse)
	r.DELETE("/courses/:id/enroll", UnenrollCourse)
	r.PATCH("/courses/:id/chapters/:chapterId/progress", UpdateChapterProgress)
	r.POST("/courses/:id/bookmark", ToggleCourseBookmark)
	return r
}

func seedCourse(t *testing.T, db *gorm.DB, isPublic bool, numChapters int) (models.User, models.Course, []models.Chapter) {
	t.Helper()

	author := models.User{
		ID:       uuid.New(),
		FullName: "Author",
		Email:    uuid.New().String() + "@test.local",
		Password: "hashed",
		Role:     models.RoleUser,
	}
	if err := db.Create(&author).Error; err != nil {
		t.Fatalf("tạo author thất bại: %v", err)
	}

	course := models.Course{
		ID:          uuid.New(),
		Title:       "System Design",
		Description: "desc",
		Topic:       "system-design",
		AuthorID:    author.ID,
		IsPublic:    isPublic,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("tạo course thất bại: %v", err)
	}

	var chapters []models.Chapter
	for i := 1; i <= numChapters; i++ {
		ch := models.Chapter{
			ID:         uuid.New(),
			CourseID:   course.ID,
			Title:      fmt.Sprintf("Chapter %d", i),
			OrderIndex: i,
		}
		if err := db.Create(&ch).Error; err != nil {
			t.Fatalf("tạo chapter thất bại: %v", err)
		}
		chapters = append(chapters, ch)
	}
	return author, course, chapters
}

func TestEnrollEndpoint(t *testing.T) {
	db := newControllerTestDB(t)
	_, course, _ := seedCourse(t, db, true, 2)

	user := models.User{ID: uuid.New(), FullName: "Learner", Email: "l@test.local", Password: "x", Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("tạo user thất bại: %v", err)
	}
	r := newEnrollmentRouter(db, user.ID)

	req := httptest.NewRequest(http.MethodPost, "/courses/"+course.ID.String()+"/enroll", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("enroll phải trả 201, nhận %d: %s", w.Code, w.Body.String())
	}

	// Ghi danh phải sinh thông báo cho tác giả
	var notifCount int64
	db.Model(&models.Notification{}).Count(&notifCount)
	if notifCount != 1 {
		t.Fatalf("phải có 1 thông báo cho tác giả, nhận %d", notifCount)
	}

	// Ghi danh trùng -> 400
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/courses/"+course.ID.String()+"/enroll", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("enroll trùng phải trả 400, nhận %d", w.Code)
	}

	// Khóa học không tồn tại -> 404
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/courses/"+uuid.New().String()+"/enroll", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("khóa học không tồn tại phải trả 404, nhận %d", w.Code)
	}
}

func TestEnrollPrivateCourseEndpoint(t *testing.T) {
	db := newControllerTestDB(t)
	_, course, _ := seedCourse(t, db, false, 1)

	user := models.User{ID: uuid.New(), FullName: "Stranger", Email: "s@test.local", Password: "x", Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("tạo user thất bại: %v", err)
	}
	r := newEnrollmentRouter(db, user.ID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/courses/"+course.ID.String()+"/enroll", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("khóa private phải trả 403, nhận %d", w.Code)
	}
}

func TestProgressEndpoint(t *testing.T) {
	db := newControllerTestDB(t)
	_, course, chapters := seedCourse(t, db, true, 2)

	user := models.User{ID: uuid.New(), FullName: "Learner", Email: "p@test.local", Password: "x", Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("tạo user thất bại: %v", err)
	}
	r := newEnrollmentRouter(db, user.ID)

	progressURL := "/courses/" + course.ID.String() + "/chapters/" + chapters[0].ID.String() + "/progress"
	body, _ := json.Marshal(map[string]bool{"is_completed": true})

	// Chưa ghi danh -> 403
	req := httptest.NewRequest(http.MethodPatch, progressURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("chưa ghi danh phải trả 403, nhận %d: %s", w.Code, w.Body.String())
	}

	// Ghi danh rồi cập nhật tiến độ
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/courses/"+course.ID.String()+"/enroll", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("enroll thất bại: %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPatch, progressURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("cập nhật tiến độ phải trả 200, nhận %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Progress struct {
			ProgressPercentage int  `json:"progress_percentage"`
			CourseCompleted    bool `json:"course_completed"`
		} `json:"progress"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response thất bại: %v", err)
	}
	if resp.Progress.ProgressPercentage != 50 || resp.Progress.CourseCompleted {
		t.Fatalf("muốn 50%% chưa hoàn thành, nhận %+v", resp.Progress)
	}

	// Chương thuộc khóa khác -> 404
	otherURL := "/courses/" + course.ID.String() + "/chapters/" + uuid.New().String() + "/progress"
	req = httptest.NewRequest(http.MethodPatch, otherURL, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("chương lạ phải trả 404, nhận %d", w.Code)
	}
}

func TestUnenrollEndpoint(t *testing.T) {
	db := newControllerTestDB(t)
	_, course, _ := seedCourse(t, db, true, 1)

	user := models.User{ID: uuid.New(), FullName: "Learner", Email: "u@test.local", Password: "x", Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("tạo user thất bại: %v", err)
	}
	r := newEnrollmentRouter(db, user.ID)

	// Chưa ghi danh -> 404
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/courses/"+course.ID.String()+"/enroll", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("unenroll khi chưa ghi danh phải trả 404, nhận %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/courses/"+course.ID.String()+"/enroll", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("enroll thất bại: %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/courses/"+course.ID.String()+"/enroll", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("unenroll phải trả 200, nhận %d: %s", w.Code, w.Body.String())
	}
}

func TestBookmarkEndpoint(t *testing.T) {
	db := newControllerTestDB(t)
	_, course, _ := seedCourse(t, db, true, 1)

	user := models.User{ID: uuid.New(), FullName: "Learner", Email: "b@test.local", Password: "x", Role: models.RoleUser}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("tạo user thất bại: %v", err)
	}
	r := newEnrollmentRouter(db, user.ID)

	bookmarkURL := "/courses/" + course.ID.String() + "/bookmark"

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, bookmarkURL, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("bookmark phải trả 200, nhận %d", w.Code)
	}
	var resp struct {
		IsBookmarked bool `json:"is_bookmarked"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response thất bại: %v", err)
	}
	if !resp.IsBookmarked {
		t.Fatalf("lần bookmark đầu phải trả is_bookmarked=true")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, bookmarkURL, nil))
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse response thất bại: %v", err)
	}
	if resp.IsBookmarked {
		t.Fatalf("lần bookmark thứ hai phải trả is_bookmarked=false")
	}
}
