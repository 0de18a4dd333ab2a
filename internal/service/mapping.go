package service

import (
	"github.com/jinzhu/copier"
	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/rs/zerolog/log"
)

func toAttemptDTO(attempt *model.TestAttempt, questionCount int) dto.AttemptDTO {
	var out dto.AttemptDTO
	if err := copier.Copy(&out, attempt); err != nil {
		log.Error().Err(err).Uint("attemptID", attempt.ID).Msg("Failed to copy TestAttempt model to AttemptDTO")
	}
	out.TestName = attempt.Test.Name
	out.Mode = attempt.Test.Mode
	out.QuestionCount = questionCount
	return out
}

func toAnswerResponses(answers []model.Answer) []dto.AnswerResponseDTO {
	out := make([]dto.AnswerResponseDTO, 0, len(answers))
	for _, a := range answers {
		out = append(out, dto.AnswerResponseDTO{ID: a.ID, Text: a.Text, IsCorrect: a.IsCorrect})
	}
	return out
}

func toQuestionView(q model.Question, selected []model.AnswerID) *dto.QuestionViewDTO {
	view := &dto.QuestionViewDTO{
		ID:       q.ID,
		Text:     q.Text,
		ImageURL: q.ImageURL,
		Answers:  make([]dto.AnswerOptionDTO, 0, len(q.Answers)),
		Selected: selected,
	}
	if view.Selected == nil {
		view.Selected = []model.AnswerID{}
	}
	for _, a := range q.Answers {
		view.Answers = append(view.Answers, dto.AnswerOptionDTO{ID: a.ID, Text: a.Text})
	}
	return view
}

func toTestResponse(test *model.Test) (*dto.TestResponseDTO, error) {
	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, test); err != nil {
		return nil, err
	}
	if resp.Questions == nil {
		resp.Questions = []dto.QuestionResponseDTO{}
	}
	return &resp, nil
}
