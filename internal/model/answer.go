package model

import "time"

// AnswerID identifies an answer choice. Selections are always compared as AnswerID
// values, never as raw request text.
type AnswerID uint

type Answer struct {
	ID         AnswerID  `gorm:"primarykey" json:"id"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"size:255;not null"`
	IsCorrect  bool      `json:"is_correct" gorm:"not null;default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
