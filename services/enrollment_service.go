package services

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
)

// Kết quả cập nhật tiến độ một chương
type ChapterProgressResult struct {
	IsCompleted        bool       `json:"is_completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
	CourseCompleted    bool       `json:"course_completed"`
}

// EnrollCourse ghi danh user vào khóa học.
// Lỗi: ErrCourseNotFound, ErrAccessDenied (khóa private, không phải tác giả),
// ErrAlreadyEnrolled.
func EnrollCourse(db *gorm.DB, courseID, userID uuid.UUID) (*models.CourseEnrollment, error) {
	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if !CanReadCourse(&course, userID) {
		return nil, ErrAccessDenied
	}

	var existing models.CourseEnrollment
	if err := db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := models.CourseEnrollment{
		ID:                 uuid.New(),
		CourseID:           courseID,
		UserID:             userID,
		ProgressPercentage: 0,
		IsCompleted:        false,
		LastAccessedAt:     time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// UnenrollCourse hủy ghi danh: xóa toàn bộ ChapterProgress của user
// trong khóa học rồi xóa Enrollment, tất cả trong một transaction —
// không được để sót ChapterProgress mồ côi.
func UnenrollCourse(db *gorm.DB, courseID, userID uuid.UUID) error {
	var enrollment models.CourseEnrollment
	if err := db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		return err
	}

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	chapterIDs := tx.Model(&models.Chapter{}).Select("id").Where("course_id = ?", courseID)
	if err := tx.Where("user_id = ? AND chapter_id IN (?)", userID, chapterIDs).
		Delete(&models.ChapterProgress{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Delete(&models.CourseEnrollment{}, "id = ?", enrollment.ID).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// TouchCourseAccess cập nhật lastAccessedAt, bỏ qua nếu chưa ghi danh
func TouchCourseAccess(db *gorm.DB, courseID, userID uuid.UUID) {
	db.Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Update("last_accessed_at", time.Now())
}

// SetChapterCompletion đánh dấu hoàn thành / bỏ hoàn thành một chương
// rồi tính lại phần trăm tiến độ của enrollment.
//
// Toàn bộ upsert + đếm + cập nhật enrollment chạy trong một transaction:
// lỗi ở bước nào thì không có thay đổi nào được ghi.
// CompletedAt của enrollment chỉ set một lần, lần đầu đạt 100%;
// bỏ hoàn thành rồi hoàn thành lại không ghi đè mốc cũ.
func SetChapterCompletion(db *gorm.DB, courseID, chapterID, userID uuid.UUID, isCompleted bool) (*ChapterProgressResult, error) {
	var enrollment models.CourseEnrollment
	if err := db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotEnrolled
		}
		return nil, err
	}

	// Chương phải thuộc đúng khóa học
	var chapter models.Chapter
	if err := db.Where("id = ? AND course_id = ?", chapterID, courseID).First(&chapter).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	now := time.Now()
	var result ChapterProgressResult

	err := db.Transaction(func(tx *gorm.DB) error {
		// 1. Upsert ChapterProgress
		var progress models.ChapterProgress
		findErr := tx.Where("chapter_id = ? AND user_id = ?", chapterID, userID).First(&progress).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			progress = models.ChapterProgress{
				ID:          uuid.New(),
				ChapterID:   chapterID,
				UserID:      userID,
				IsCompleted: isCompleted,
			}
			if isCompleted {
				progress.CompletedAt = &now
			}
			if err := tx.Create(&progress).Error; err != nil {
				return err
			}
		case findErr != nil:
			return findErr
		default:
			if isCompleted && !progress.IsCompleted {
				progress.CompletedAt = &now
			} else if !isCompleted {
				progress.CompletedAt = nil
			}
			progress.IsCompleted = isCompleted
			if err := tx.Save(&progress).Error; err != nil {
				return err
			}
		}

		// 2. Đếm lại: tổng số chương và số chương đã hoàn thành
		var totalChapters int64
		if err := tx.Model(&models.Chapter{}).Where("course_id = ?", courseID).Count(&totalChapters).Error; err != nil {
			return err
		}

		chapterIDs := tx.Model(&models.Chapter{}).Select("id").Where("course_id = ?", courseID)
		var completedChapters int64
		if err := tx.Model(&models.ChapterProgress{}).
			Where("user_id = ? AND is_completed = ? AND chapter_id IN (?)", userID, true, chapterIDs).
			Count(&completedChapters).Error; err != nil {
			return err
		}

		// 3. Tính phần trăm (khóa học luôn có >= 1 chương)
		percentage := int(math.Round(float64(completedChapters) / float64(totalChapters) * 100))
		courseCompleted := percentage == 100

		// 4. Cập nhật enrollment; completedAt giữ nguyên nếu đã từng set
		updates := map[string]interface{}{
			"progress_percentage": percentage,
			"is_completed":        courseCompleted,
			"last_accessed_at":    now,
		}
		if courseCompleted && enrollment.CompletedAt == nil {
			updates["completed_at"] = &now
		}
		if err := tx.Model(&models.CourseEnrollment{}).Where("id = ?", enrollment.ID).Updates(updates).Error; err != nil {
			return err
		}

		result = ChapterProgressResult{
			IsCompleted:        progress.IsCompleted,
			CompletedAt:        progress.CompletedAt,
			ProgressPercentage: percentage,
			CourseCompleted:    courseCompleted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ToggleCourseBookmark thêm/bỏ đánh dấu khóa học.
// Trả về true nếu sau thao tác khóa học đang được bookmark.
func ToggleCourseBookmark(db *gorm.DB, courseID, userID uuid.UUID) (bool, error) {
	var course models.Course
	if err := db.First(&course, "id = ?", courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrCourseNotFound
		}
		return false, err
	}

	var bookmark models.CourseBookmark
	err := db.Where("course_id = ? AND user_id = ?", courseID, userID).First(&bookmark).Error
	if err == nil {
		if err := db.Where("course_id = ? AND user_id = ?", courseID, userID).
			Delete(&models.CourseBookmark{}).Error; err != nil {
			return false, err
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	bookmark = models.CourseBookmark{
		CourseID: courseID,
		UserID:   userID,
	}
	if err := db.Create(&bookmark).Error; err != nil {
		return false, err
	}
	return true, nil
}
