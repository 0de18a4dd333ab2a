package model

import "time"

type TestAttempt struct {
	ID           uint         `gorm:"primarykey" json:"id"`
	UserID       uint         `json:"user_id" gorm:"not null;index"`
	TestID       uint         `json:"test_id" gorm:"not null;index"`
	Test         Test         `json:"test,omitempty" gorm:"foreignKey:TestID;constraint:OnDelete:CASCADE"`
	StartTime    time.Time    `json:"start_time" gorm:"not null"`
	EndTime      *time.Time   `json:"end_time,omitempty"`
	Score        *float64     `json:"score,omitempty"`
	Completed    bool         `json:"completed" gorm:"not null;default:false;index"`
	CurrentIndex int          `json:"current_index" gorm:"not null;default:0"`
	UserAnswers  []UserAnswer `json:"user_answers,omitempty" gorm:"foreignKey:TestAttemptID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
