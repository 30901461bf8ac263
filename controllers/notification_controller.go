package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/interview-prep-backend/models"
	"github.com/vnkhanh/interview-prep-backend/ws"
)

// Danh sách thông báo
func GetNotifications(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	var list []models.Notification
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy thông báo"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// Đếm số thông báo chưa đọc
func GetUnreadCount(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count)
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}

// Đánh dấu đã đọc
func MarkNotificationAsRead(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID thông báo không hợp lệ"})
		return
	}

	var notif models.Notification
	if err := db.First(&notif, "id = ? AND user_id = ?", notificationID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông báo"})
		return
	}

	now := time.Now()
	if err := db.Model(&notif).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi cập nhật thông báo"})
		return
	}

	// Gửi cập nhật badge realtime
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count)
	ws.SendBadgeUpdate(userID.String(), count)

	c.JSON(http.StatusOK, gin.H{"message": "Đã đánh dấu thông báo là đã đọc"})
}

func MarkAllAsRead(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	now := time.Now()
	if err := db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi đánh dấu tất cả đã đọc"})
		return
	}

	// Gửi cập nhật badge realtime
	ws.SendBadgeUpdate(userID.String(), 0)

	c.JSON(http.StatusOK, gin.H{"message": "Đã đánh dấu tất cả thông báo là đã đọc"})
}

// Xóa một thông báo cụ thể
func DeleteNotification(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	notifID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID thông báo không hợp lệ"})
		return
	}

	// Kiểm tra xem thông báo có thuộc user không
	var notif models.Notification
	if err := db.First(&notif, "id = ? AND user_id = ?", notifID, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông báo"})
		return
	}

	if err := db.Delete(&notif).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi xóa thông báo"})
		return
	}

	// Cập nhật realtime badge
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count)
	ws.SendBadgeUpdate(userID.String(), count)

	c.JSON(http.StatusOK, gin.H{"message": "Xóa thông báo thành công"})
}

// Xóa tất cả thông báo đã đọc, giữ lại chưa đọc
func DeleteReadNotifications(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userID := currentUserID(c)

	if err := db.Where("user_id = ? AND is_read = true", userID).
		Delete(&models.Notification{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi xóa thông báo đã đọc"})
		return
	}

	// Đếm lại số chưa đọc để cập nhật badge realtime
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count)
	ws.SendBadgeUpdate(userID.String(), count)

	c.JSON(http.StatusOK, gin.H{"message": "Đã xóa các thông báo đã đọc"})
}

// CreateNotification tạo thông báo cho user và đẩy badge realtime.
// Gọi từ các controller khác, không expose thành endpoint.
func CreateNotification(db *gorm.DB, userID uuid.UUID, title, message, notifType string, courseID *uuid.UUID) {
	notif := models.Notification{
		ID:       uuid.New(),
		UserID:   userID,
		Title:    title,
		Message:  message,
		Type:     notifType,
		CourseID: courseID,
	}
	if err := db.Create(&notif).Error; err != nil {
		return
	}

	var count int64
	db.Model(&models.Notification{}).Where("user_id = ? AND is_read = false", userID).Count(&count)
	ws.SendBadgeUpdate(userID.String(), count)
}
