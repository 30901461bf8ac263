package models

import (
	"time"

	"github.com/google/uuid"
)

// Phiên phỏng vấn thử. Câu hỏi do AI sinh, điểm và nhận xét tổng hợp
// sau khi chấm từng câu trả lời.
type Interview struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User       User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	Role       string    `gorm:"size:100;not null" json:"role"` // vị trí ứng tuyển
	Topic      string    `gorm:"size:255" json:"topic"`
	Difficulty string    `gorm:"size:20;default:'medium'" json:"difficulty"` // easy | medium | hard
	ResumeText string    `gorm:"type:text" json:"-"`                         // text trích từ CV (nếu có upload)
	Status     string    `gorm:"size:20;default:'in_progress'" json:"status"` // in_progress | completed
	Score      *float64  `gorm:"type:numeric(5,2)" json:"score,omitempty"`
	Feedback   string    `gorm:"type:text" json:"feedback,omitempty"`

	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Questions []InterviewQuestion `gorm:"foreignKey:InterviewID" json:"questions,omitempty"`
}

type InterviewQuestion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InterviewID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_interview_question_order" json:"interview_id"`
	Interview   Interview `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	OrderIndex  int       `gorm:"not null;uniqueIndex:idx_interview_question_order" json:"order_index"`
	Question    string    `gorm:"type:text;not null" json:"question"`
	Answer      string    `gorm:"type:text" json:"answer"`
	Evaluation  string    `gorm:"type:text" json:"evaluation"` // nhận xét của AI cho câu trả lời
	Score       *float64  `gorm:"type:numeric(5,2)" json:"score,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
