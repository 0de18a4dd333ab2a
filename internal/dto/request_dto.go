package dto

import "github.com/quizline/quizline/internal/model"

// SubmitAnswerDTO carries one submission for the question identified by QuestionID.
// AnswerIDs may be empty, which is graded as incorrect.
type SubmitAnswerDTO struct {
	QuestionID uint             `json:"question_id" binding:"required"`
	AnswerIDs  []model.AnswerID `json:"answer_ids"`
}

// TokenRequestDTO is accepted by the development login endpoint.
type TokenRequestDTO struct {
	UserID uint `json:"user_id" binding:"required"`
	Staff  bool `json:"staff"`
}
