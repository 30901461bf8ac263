package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/interview-prep-backend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
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
	); err != nil {
		t.Fatalf("migrate thất bại: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		FullName: "Test User",
		Email:    uuid.New().String() + "@test.local",
		Password: "hashed",
		Role:     models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("tạo user thất bại: %v", err)
	}
	return user
}

func createTestCourse(t *testing.T, db *gorm.DB, authorID uuid.UUID, isPublic bool, numChapters int) (models.Course, []models.Chapter) {
	t.Helper()
	course := models.Course{
		ID:          uuid.New(),
		Title:       "Go Interview Prep",
		Description: "desc",
		Topic:       "golang",
		AuthorID:    authorID,
		IsPublic:    isPublic,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("tạo course thất bại: %v", err)
	}

	chapters := make([]models.Chapter, 0, numChapters)
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
	return course, chapters
}

func TestEnrollCourse(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)
	user := createTestUser(t, db)
	course, _ := createTestCourse(t, db, author.ID, true, 3)

	enrollment, err := EnrollCourse(db, course.ID, user.ID)
	if err != nil {
		t.Fatalf("enroll thất bại: %v", err)
	}
	if enrollment.ProgressPercentage != 0 {
		t.Fatalf("progress khởi tạo phải là 0, nhận %d", enrollment.ProgressPercentage)
	}
	if enrollment.IsCompleted {
		t.Fatalf("enrollment mới không được là completed")
	}

	var count int64
	db.Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND user_id = ?", course.ID, user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("phải có đúng 1 enrollment, nhận %d", count)
	}

	// Ghi danh lại phải bị chặn
	if _, err := EnrollCourse(db, course.ID, user.ID); !errors.Is(err, ErrAlreadyEnrolled) {
		t.Fatalf("muốn ErrAlreadyEnrolled, nhận %v", err)
	}
}

func TestEnrollCourseNotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)

	if _, err := EnrollCourse(db, uuid.New(), user.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("muốn ErrCourseNotFound, nhận %v", err)
	}
}

func TestEnrollPrivateCourse(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)
	stranger := createTestUser(t, db)
	course, _ := createTestCourse(t, db, author.ID, false, 2)

	// Người lạ không ghi danh được khóa private
	if _, err := EnrollCourse(db, course.ID, stranger.ID); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("muốn ErrAccessDenied, nhận %v", err)
	}

	// Tác giả thì được
	if _, err := EnrollCourse(db, course.ID, author.ID); err != nil {
		t.Fatalf("tác giả phải ghi danh được khóa private: %v", err)
	}
}

func TestCourseVisibilityPersisted(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)

	// Cờ private phải được lưu đúng, không bị default của DB ghi đè
	private, _ := createTestCourse(t, db, author.ID, false, 1)
	var got models.Course
	if err := db.First(&got, "id = ?", private.ID).Error; err != nil {
		t.Fatalf("không tìm thấy course: %v", err)
	}
	if got.IsPublic {
		t.Fatalf("course tạo với IsPublic=false nhưng DB lưu is_public=true")
	}

	public, _ := createTestCourse(t, db, author.ID, true, 1)
	got = models.Course{}
	if err := db.First(&got, "id = ?", public.ID).Error; err != nil {
		t.Fatalf("không tìm thấy course: %v", err)
	}
	if !got.IsPublic {
		t.Fatalf("course tạo với IsPublic=true nhưng DB lưu is_public=false")
	}
}

func TestUnenrollCourse(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)
	user := createTestUser(t, db)
	course, chapters := createTestCourse(t, db, author.ID, true, 2)

	if _, err := EnrollCourse(db, course.ID, user.ID); err != nil {
		t.Fatalf("enroll thất bại: %v", err)
	}
	if _, err := SetChapterCompletion(db, course.ID, chapters[0].ID, user.ID, true); err != nil {
		t.Fatalf("đánh dấu hoàn thành thất bại: %v", err)
	}

	if err := UnenrollCourse(db, course.ID, user.ID); err != nil {
		t.Fatalf("unenroll thất bại: %v", err)
	}

	// Enrollment và toàn bộ tiến độ chương phải biến mất
	var enrollCount int64
	db.Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND user_id = ?", course.ID, user.ID).Count(&enrollCount)
	if enrollCount != 0 {
		t.Fatalf("enrollment phải bị xóa, còn %d", enrollCount)
	}
	var progressCount int64
	db.Model(&models.ChapterProgress{}).Where("user_id = ?", user.ID).Count(&progressCount)
	if progressCount != 0 {
		t.Fatalf("chapter progress phải bị xóa kèm, còn %d", progressCount)
	}

	// Unenroll lần nữa phải báo chưa ghi danh
	if err := UnenrollCourse(db, course.ID, user.ID); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("muốn ErrNotEnrolled, nhận %v", err)
	}
}

func TestSetChapterCompletionWalkthrough(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)
	user := createTestUser(t, db)
	course, chapters := createTestCourse(t, db, author.ID, true, 4)

	if _, err := EnrollCourse(db, course.ID, user.ID); err != nil {
		t.Fatalf("enroll thất bại: %v", err)
	}

	wantPercent := []int{25, 50, 75, 100}
	for i, ch := range chapters {
		result, err := SetChapterCompletion(db, course.ID, ch.ID, user.ID, true)
		if err != nil {
			t.Fatalf("hoàn thành chương %d thất bại: %v", i+1, err)
		}
		if result.ProgressPercentage != wantPercent[i] {
			t.Fatalf("chương %d: muốn %d%%, nhận %d%%", i+1, wantPercent[i], result.ProgressPercentage)
		}
		if i < len(chapters)-1 && result.CourseCompleted {
			t.Fatalf("chưa hết chương mà đã báo hoàn thành khóa học")
		}
	}

	var enrollment models.CourseEnrollment
	if err := db.Where("course_id = ? AND user_id = ?", course.ID, user.ID).First(&enrollment).Error; err != nil {
		t.Fatalf("không tìm thấy enrollment: %v", err)
	}
	if !enrollment.IsCompleted || enrollment.ProgressPercentage != 100 {
		t.Fatalf("enrollment phải completed 100%%, nhận %v %d%%", enrollment.IsCompleted, enrollment.ProgressPercentage)
	}
	if enrollment.CompletedAt == nil {
		t.Fatalf("completedAt phải được set khi đạt 100%%")
	}
	firstCompletedAt := *enrollment.CompletedAt

	// Bỏ hoàn thành một chương: tụt về 75%, cờ completed tắt
	result, err := SetChapterCompletion(db, course.ID, chapters[3].ID, user.ID, false)
	if err != nil {
		t.Fatalf("bỏ hoàn thành thất bại: %v", err)
	}
	if result.ProgressPercentage != 75 || result.CourseCompleted {
		t.Fatalf("muốn 75%% chưa hoàn thành, nhận %d%% %v", result.ProgressPercentage, result.CourseCompleted)
	}
	if result.IsCompleted {
		t.Fatalf("chapter progress phải là chưa hoàn thành")
	}
	if result.CompletedAt != nil {
		t.Fatalf("completedAt của chương phải bị xóa khi bỏ hoàn thành")
	}

	// Hoàn thành lại: completedAt của enrollment không được ghi đè
	if _, err := SetChapterCompletion(db, course.ID, chapters[3].ID, user.ID, true); err != nil {
		t.Fatalf("hoàn thành lại thất bại: %v", err)
	}
	if err := db.Where("id = ?", enrollment.ID).First(&enrollment).Error; err != nil {
		t.Fatalf("không tìm thấy enrollment: %v", err)
	}
	if enrollment.CompletedAt == nil || !enrollment.CompletedAt.Equal(firstCompletedAt) {
		t.Fatalf("completedAt chỉ được set một lần, muốn %v nhận %v", firstCompletedAt, enrollment.CompletedAt)
	}
}

func TestSetChapterCompletionRounding(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)
	user := createTestUser(t, db)
	course, chapters := createTestCourse(t, db, author.ID, true, 3)

	if _, err := EnrollCourse(db, course.ID, user.ID); err != nil {
		t.Fatalf("enroll thất bại: %v", err)
	}

	// 1/3 = 33.33 -> 33, 2/3 = 66.67 -> 67, 3/3 = 100
	wantPercent := []int{33, 67, 100}
	for i, ch := range chapters {
		result, err := SetChapterCompletion(db, course.ID, ch.ID, user.ID, true)
		if err != nil {
			t.Fatalf("hoàn thành chương %d thất bại: %v", i+1, err)
		}
		if result.ProgressPercentage != wantPercent[i] {
			t.Fatalf("chương %d: muốn %d%%, nhận %d%%", i+1, wantPercent[i], result.ProgressPercentage)
		}
	}
}

func TestSetChapterCompletionGuards(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)
	user := createTestUser(t, db)
	course, chapters := createTestCourse(t, db, author.ID, true, 2)
	_, otherChapters := createTestCourse(t, db, author.ID, true, 1)

	// Chưa ghi danh
	if _, err := SetChapterCompletion(db, course.ID, chapters[0].ID, user.ID, true); !errors.Is(err, ErrNotEnrolled) {
		t.Fatalf("muốn ErrNotEnrolled, nhận %v", err)
	}

	if _, err := EnrollCourse(db, course.ID, user.ID); err != nil {
		t.Fatalf("enroll thất bại: %v", err)
	}

	// Chương thuộc khóa học khác
	if _, err := SetChapterCompletion(db, course.ID, otherChapters[0].ID, user.ID, true); !errors.Is(err, ErrChapterNotFound) {
		t.Fatalf("muốn ErrChapterNotFound, nhận %v", err)
	}
}

func TestToggleCourseBookmark(t *testing.T) {
	db := newTestDB(t)
	author := createTestUser(t, db)
	user := createTestUser(t, db)
	course, _ := createTestCourse(t, db, author.ID, true, 1)

	bookmarked, err := ToggleCourseBookmark(db, course.ID, user.ID)
	if err != nil {
		t.Fatalf("toggle thất bại: %v", err)
	}
	if !bookmarked {
		t.Fatalf("lần toggle đầu phải trả true")
	}

	var count int64
	db.Model(&models.CourseBookmark{}).
		Where("course_id = ? AND user_id = ?", course.ID, user.ID).Count(&count)
	if count != 1 {
		t.Fatalf("phải có 1 bookmark, nhận %d", count)
	}

	bookmarked, err = ToggleCourseBookmark(db, course.ID, user.ID)
	if err != nil {
		t.Fatalf("toggle lần 2 thất bại: %v", err)
	}
	if bookmarked {
		t.Fatalf("lần toggle thứ hai phải trả false")
	}

	db.Model(&models.CourseBookmark{}).
		Where("course_id = ? AND user_id = ?", course.ID, user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("bookmark phải bị xóa, còn %d", count)
	}

	if _, err := ToggleCourseBookmark(db, uuid.New(), user.ID); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("muốn ErrCourseNotFound, nhận %v", err)
	}
}
