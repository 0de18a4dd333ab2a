package dto

import (
	"time"

	"github.com/quizline/quizline/internal/model"
)

// AnswerResponseDTO is an answer choice as staff see it, including the key.
type AnswerResponseDTO struct {
	ID        model.AnswerID `json:"id"`
	Text      string         `json:"text"`
	IsCorrect bool           `json:"is_correct"`
}

// QuestionResponseDTO is used for displaying question details to staff.
type QuestionResponseDTO struct {
	ID          uint                `json:"id"`
	TestID      uint                `json:"test_id"`
	Text        string              `json:"text"`
	ImageURL    *string             `json:"image_url,omitempty"`
	Explanation string              `json:"explanation,omitempty"`
	Position    int                 `json:"position"`
	Answers     []AnswerResponseDTO `json:"answers"`
}

// TestResponseDTO is used for displaying full test details to staff.
type TestResponseDTO struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Mode        model.TestMode        `json:"mode"`
	Position    int                   `json:"position"`
	Questions   []QuestionResponseDTO `json:"questions"`
	CreatedAt   time.Time             `json:"created_at"`
}

// TestSummaryDTO is used for listing tests.
type TestSummaryDTO struct {
	ID            uint           `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Mode          model.TestMode `json:"mode"`
	Position      int            `json:"position"`
	QuestionCount int            `json:"question_count"`
	CreatedAt     time.Time      `json:"created_at"`
}
