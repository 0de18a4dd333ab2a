package dto

import (
	"time"

	"github.com/quizline/quizline/internal/model"
)

// TestCreateDTO is used by staff to create an empty test; questions are added one at a time.
type TestCreateDTO struct {
	Name        string         `json:"name" binding:"required,max=255"`
	Description string         `json:"description,omitempty"`
	Mode        model.TestMode `json:"mode" binding:"required,oneof=learning exam"`
	Position    int            `json:"position" binding:"min=0"`
}

// AnswerCreateDTO is one answer choice inside QuestionCreateDTO.
type AnswerCreateDTO struct {
	Text      string `json:"text" binding:"required,max=255"`
	IsCorrect bool   `json:"is_correct"`
}

// QuestionCreateDTO adds a question with its answer choices to a test.
// A question needs exactly four answers, at least one of them correct.
type QuestionCreateDTO struct {
	Text        string            `json:"text" binding:"required"`
	ImageURL    *string           `json:"image_url"`
	Explanation string            `json:"explanation"`
	Position    *int              `json:"position" binding:"omitempty,min=0"`
	Answers     []AnswerCreateDTO `json:"answers" binding:"required,dive"`
}

type ReorderTestsDTO struct {
	TestIDs []uint `json:"test_ids" binding:"required,min=1"`
}

type BlockUserDTO struct {
	BlockedUntil time.Time `json:"blocked_until" binding:"required"`
}

type ProfileDTO struct {
	UserID       uint       `json:"user_id"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
	Blocked      bool       `json:"blocked"`
	CreatedAt    time.Time  `json:"created_at"`
}
