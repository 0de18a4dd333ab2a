package service

import (
	"context"

	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/quizline/quizline/internal/repository"
	"github.com/rs/zerolog/log"
)

// ResultService builds the read-only per-question view of a completed attempt.
type ResultService interface {
	Project(ctx context.Context, userID, attemptID uint) (*dto.AttemptResultDTO, error)
}

type resultService struct {
	questionRepo   repository.QuestionRepository
	answerRepo     repository.AnswerRepository
	attemptRepo    repository.TestAttemptRepository
	userAnswerRepo repository.UserAnswerRepository
}

func NewResultService(
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	attemptRepo repository.TestAttemptRepository,
	userAnswerRepo repository.UserAnswerRepository,
) ResultService {
	return &resultService{
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		attemptRepo:    attemptRepo,
		userAnswerRepo: userAnswerRepo,
	}
}

func (s *resultService) Project(ctx context.Context, userID, attemptID uint) (*dto.AttemptResultDTO, error) {
	attempt, err := loadOwned(ctx, s.attemptRepo, userID, attemptID, false)
	if err != nil {
		return nil, err
	}
	if !attempt.Completed {
		return nil, &StateError{AttemptID: attempt.ID, Reason: "attempt is still in progress", Redirect: RedirectFinish}
	}

	questions, err := s.questionRepo.FindOrderedByTestID(ctx, attempt.TestID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load questions for results")
		return nil, err
	}
	answers, err := s.userAnswerRepo.FindByAttempt(ctx, attempt.ID)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load user answers for results")
		return nil, err
	}
	byQuestion := make(map[uint]model.UserAnswer, len(answers))
	for _, ua := range answers {
		byQuestion[ua.QuestionID] = ua
	}

	results := make([]dto.QuestionResultDTO, 0, len(answers))
	for _, q := range questions {
		ua, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		selectedIDs := ua.SelectedIDs()
		selected, err := s.answerRepo.FindByIDs(ctx, selectedIDs)
		if err != nil {
			return nil, err
		}
		var correct []model.Answer
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct = append(correct, a)
			}
		}

		isCorrect := IsCorrect(selectedIDs, q.CorrectAnswerIDs())
		if isCorrect != ua.IsCorrect {
			log.Warn().Uint("attemptID", attempt.ID).Uint("questionID", q.ID).
				Bool("stored", ua.IsCorrect).Bool("recomputed", isCorrect).
				Msg("Stored correctness disagrees with recomputed value")
		}

		results = append(results, dto.QuestionResultDTO{
			QuestionID:      q.ID,
			Text:            q.Text,
			ImageURL:        q.ImageURL,
			Explanation:     q.Explanation,
			Answers:         toAnswerResponses(q.Answers),
			SelectedAnswers: toAnswerResponses(selected),
			CorrectAnswers:  toAnswerResponses(correct),
			IsCorrect:       isCorrect,
		})
	}

	return &dto.AttemptResultDTO{
		Attempt: toAttemptDTO(attempt, len(questions)),
		Results: results,
	}, nil
}
