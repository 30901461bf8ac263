package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PodcastStatusProcessing = "processing"
	PodcastStatusReady      = "ready"
	PodcastStatusFailed     = "failed"
)

// Podcast audio sinh từ nội dung một chương. Mỗi chương giữ tối đa
// một podcast ready; tạo lại sẽ thay bản cũ.
type Podcast struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChapterID   uuid.UUID `gorm:"type:uuid;not null" json:"chapter_id"`
	Chapter     Chapter   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	AudioURL    string    `gorm:"type:text" json:"audio_url"`
	DurationSec int       `json:"duration_sec"`
	Status      string    `gorm:"size:20;default:'processing'" json:"status"` // processing | ready | failed
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
