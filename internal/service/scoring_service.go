package service

import (
	"context"
	"fmt"

	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/quizline/quizline/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ScoringService closes attempts. Exam attempts are graded here; learning attempts keep a nil score.
type ScoringService interface {
	Finish(ctx context.Context, userID, attemptID uint) (*dto.AttemptDTO, error)
}

type scoringService struct {
	db             *gorm.DB
	questionRepo   repository.QuestionRepository
	attemptRepo    repository.TestAttemptRepository
	userAnswerRepo repository.UserAnswerRepository
	scoreConverter ScoreConverterService
	now            Clock
}

func NewScoringService(
	db *gorm.DB,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.TestAttemptRepository,
	userAnswerRepo repository.UserAnswerRepository,
	scoreConverter ScoreConverterService,
	now Clock,
) ScoringService {
	return &scoringService{
		db:             db,
		questionRepo:   questionRepo,
		attemptRepo:    attemptRepo,
		userAnswerRepo: userAnswerRepo,
		scoreConverter: scoreConverter,
		now:            now,
	}
}

func (s *scoringService) Finish(ctx context.Context, userID, attemptID uint) (*dto.AttemptDTO, error) {
	var (
		finished *model.TestAttempt
		total    int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptRepo := s.attemptRepo.WithTx(tx)
		userAnswerRepo := s.userAnswerRepo.WithTx(tx)

		attempt, err := loadOwned(ctx, attemptRepo, userID, attemptID, true)
		if err != nil {
			return err
		}
		if attempt.Completed {
			return attemptCompleted(attempt.ID)
		}

		questions, err := s.questionRepo.WithTx(tx).FindOrderedByTestID(ctx, attempt.TestID)
		if err != nil {
			return err
		}
		total = len(questions)

		var score *float64
		if attempt.Test.Mode == model.ModeExam {
			answers, err := userAnswerRepo.FindByAttempt(ctx, attempt.ID)
			if err != nil {
				return err
			}
			byQuestion := make(map[uint]model.UserAnswer, len(answers))
			for _, ua := range answers {
				byQuestion[ua.QuestionID] = ua
			}

			correctCount := 0
			for _, q := range questions {
				ua, ok := byQuestion[q.ID]
				if !ok {
					continue
				}
				isCorrect := IsCorrect(ua.SelectedIDs(), q.CorrectAnswerIDs())
				if err := userAnswerRepo.UpdateCorrectness(ctx, ua.ID, isCorrect); err != nil {
					return fmt.Errorf("persist correctness of answer %d: %w", ua.ID, err)
				}
				if isCorrect {
					correctCount++
				}
			}
			pct := s.scoreConverter.Percentage(correctCount, total)
			score = &pct
		}

		end := s.now()
		ok, err := attemptRepo.MarkCompleted(ctx, attempt.ID, end, score)
		if err != nil {
			return err
		}
		if !ok {
			return attemptCompleted(attempt.ID)
		}
		attempt.Completed = true
		attempt.EndTime = &end
		attempt.Score = score
		finished = attempt
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to finish attempt")
		}
		return nil, err
	}

	evt := log.Info().Uint("attemptID", finished.ID).Uint("userID", userID).Str("mode", string(finished.Test.Mode))
	if finished.Score != nil {
		evt = evt.Float64("score", *finished.Score)
	}
	evt.Msg("Test attempt finished")

	out := toAttemptDTO(finished, total)
	return &out, nil
}
