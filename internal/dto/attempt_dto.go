package dto

import (
	"time"

	"github.com/quizline/quizline/internal/model"
)

type AttemptDTO struct {
	ID            uint           `json:"id"`
	TestID        uint           `json:"test_id"`
	TestName      string         `json:"test_name"`
	Mode          model.TestMode `json:"mode"`
	UserID        uint           `json:"user_id"`
	StartTime     time.Time      `json:"start_time"`
	EndTime       *time.Time     `json:"end_time,omitempty"`
	Score         *float64       `json:"score"`
	Completed     bool           `json:"completed"`
	CurrentIndex  int            `json:"current_index"`
	QuestionCount int            `json:"question_count"`
}

// AnswerOptionDTO is an answer choice shown while taking a test. It never carries the key.
type AnswerOptionDTO struct {
	ID   model.AnswerID `json:"id"`
	Text string         `json:"text"`
}

type QuestionViewDTO struct {
	ID       uint              `json:"id"`
	Text     string            `json:"text"`
	ImageURL *string           `json:"image_url,omitempty"`
	Answers  []AnswerOptionDTO `json:"answers"`
	// Selected holds the ids from a previous submission for this question, if any.
	Selected []model.AnswerID `json:"selected"`
}

// QuestionStepDTO is either the question at Index or the end-of-test marker.
type QuestionStepDTO struct {
	AttemptID uint             `json:"attempt_id"`
	Index     int              `json:"index"`
	Total     int              `json:"total"`
	EndOfTest bool             `json:"end_of_test"`
	Question  *QuestionViewDTO `json:"question,omitempty"`
}

// SubmitOutcomeDTO is the response to a submission. In exam mode Graded is false
// and no verdict or key is disclosed.
type SubmitOutcomeDTO struct {
	AttemptID   uint             `json:"attempt_id"`
	QuestionID  uint             `json:"question_id"`
	Mode        model.TestMode   `json:"mode"`
	Graded      bool             `json:"graded"`
	IsCorrect   *bool            `json:"is_correct,omitempty"`
	Selected    []model.AnswerID `json:"selected"`
	Correct     []model.AnswerID `json:"correct,omitempty"`
	Explanation string           `json:"explanation,omitempty"`
}

type AdvanceDTO struct {
	AttemptID uint `json:"attempt_id"`
	Index     int  `json:"index"`
	Total     int  `json:"total"`
	EndOfTest bool `json:"end_of_test"`
}

type QuestionResultDTO struct {
	QuestionID      uint                `json:"question_id"`
	Text            string              `json:"text"`
	ImageURL        *string             `json:"image_url,omitempty"`
	Explanation     string              `json:"explanation,omitempty"`
	Answers         []AnswerResponseDTO `json:"answers"`
	SelectedAnswers []AnswerResponseDTO `json:"selected_answers"`
	CorrectAnswers  []AnswerResponseDTO `json:"correct_answers"`
	IsCorrect       bool                `json:"is_correct"`
}

type AttemptResultDTO struct {
	Attempt AttemptDTO          `json:"attempt"`
	Results []QuestionResultDTO `json:"results"`
}
