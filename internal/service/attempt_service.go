package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/quizline/quizline/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AttemptService drives a single attempt through the questions of its test.
type AttemptService interface {
	Start(ctx context.Context, userID, testID uint) (*dto.AttemptDTO, error)
	GetQuestion(ctx context.Context, userID, attemptID uint, index int) (*dto.QuestionStepDTO, error)
	SubmitAnswer(ctx context.Context, userID, attemptID uint, req dto.SubmitAnswerDTO) (*dto.SubmitOutcomeDTO, error)
	Advance(ctx context.Context, userID, attemptID uint) (*dto.AdvanceDTO, error)
	ListMyAttempts(ctx context.Context, userID, testID uint) ([]dto.AttemptDTO, error)
}

type attemptService struct {
	db             *gorm.DB
	testRepo       repository.TestRepository
	questionRepo   repository.QuestionRepository
	answerRepo     repository.AnswerRepository
	attemptRepo    repository.TestAttemptRepository
	userAnswerRepo repository.UserAnswerRepository
	gate           AccessGate
	now            Clock
}

func NewAttemptService(
	db *gorm.DB,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	answerRepo repository.AnswerRepository,
	attemptRepo repository.TestAttemptRepository,
	userAnswerRepo repository.UserAnswerRepository,
	gate AccessGate,
	now Clock,
) AttemptService {
	return &attemptService{
		db:             db,
		testRepo:       testRepo,
		questionRepo:   questionRepo,
		answerRepo:     answerRepo,
		attemptRepo:    attemptRepo,
		userAnswerRepo: userAnswerRepo,
		gate:           gate,
		now:            now,
	}
}

func (s *attemptService) Start(ctx context.Context, userID, testID uint) (*dto.AttemptDTO, error) {
	now := s.now()
	if err := s.gate.Require(ctx, userID, now); err != nil {
		return nil, err
	}

	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Start: test lookup failed")
		return nil, notFound(err, "test", testID)
	}
	count, err := s.questionRepo.CountByTestID(ctx, testID)
	if err != nil {
		return nil, err
	}

	attempt := model.TestAttempt{
		UserID:    userID,
		TestID:    testID,
		StartTime: now,
	}
	if err := s.attemptRepo.Create(ctx, &attempt); err != nil {
		log.Error().Err(err).Uint("testID", testID).Uint("userID", userID).Msg("Failed to create test attempt")
		return nil, fmt.Errorf("database error creating attempt: %w", err)
	}
	attempt.Test = *test

	log.Info().Uint("attemptID", attempt.ID).Uint("testID", testID).Uint("userID", userID).Msg("Test attempt started")
	out := toAttemptDTO(&attempt, int(count))
	return &out, nil
}

// loadOwned fetches an attempt the caller owns. Missing attempts are ErrNotFound,
// attempts of another user are ErrForbidden.
func loadOwned(ctx context.Context, repo repository.TestAttemptRepository, userID, attemptID uint, forUpdate bool) (*model.TestAttempt, error) {
	var (
		attempt *model.TestAttempt
		err     error
	)
	if forUpdate {
		attempt, err = repo.FindByIDForUpdate(ctx, attemptID)
	} else {
		attempt, err = repo.FindByID(ctx, attemptID)
	}
	if err != nil {
		return nil, notFound(err, "attempt", attemptID)
	}
	if attempt.UserID != userID {
		log.Warn().Uint("attemptID", attemptID).Uint("userID", userID).Msg("Attempt accessed by non-owner")
		return nil, fmt.Errorf("%w: attempt %d belongs to another user", ErrForbidden, attemptID)
	}
	return attempt, nil
}

func (s *attemptService) GetQuestion(ctx context.Context, userID, attemptID uint, index int) (*dto.QuestionStepDTO, error) {
	if err := s.gate.Require(ctx, userID, s.now()); err != nil {
		return nil, err
	}
	if index < 0 {
		return nil, validationf("question index %d is negative", index)
	}

	attempt, err := loadOwned(ctx, s.attemptRepo, userID, attemptID, false)
	if err != nil {
		return nil, err
	}
	if attempt.Completed {
		return nil, attemptCompleted(attempt.ID)
	}

	questions, err := s.questionRepo.FindOrderedByTestID(ctx, attempt.TestID)
	if err != nil {
		log.Error().Err(err).Uint("testID", attempt.TestID).Msg("Failed to load questions for attempt")
		return nil, err
	}

	step := &dto.QuestionStepDTO{AttemptID: attempt.ID, Index: index, Total: len(questions)}
	if index >= len(questions) {
		step.EndOfTest = true
		return step, nil
	}

	q := questions[index]
	var selected []model.AnswerID
	prior, err := s.userAnswerRepo.FindByAttemptAndQuestion(ctx, attempt.ID, q.ID)
	switch {
	case err == nil:
		selected = prior.SelectedIDs()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	step.Question = toQuestionView(q, selected)
	return step, nil
}

func (s *attemptService) SubmitAnswer(ctx context.Context, userID, attemptID uint, req dto.SubmitAnswerDTO) (*dto.SubmitOutcomeDTO, error) {
	if err := s.gate.Require(ctx, userID, s.now()); err != nil {
		return nil, err
	}
	selected := normalizeSelection(req.AnswerIDs)

	var outcome *dto.SubmitOutcomeDTO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attempt, err := loadOwned(ctx, s.attemptRepo.WithTx(tx), userID, attemptID, true)
		if err != nil {
			return err
		}
		if attempt.Completed {
			return attemptCompleted(attempt.ID)
		}

		question, err := s.questionRepo.WithTx(tx).FindByID(ctx, req.QuestionID)
		if err != nil {
			return notFound(err, "question", req.QuestionID)
		}
		if question.TestID != attempt.TestID {
			return validationf("question %d is not part of test %d", question.ID, attempt.TestID)
		}
		for _, id := range selected {
			if !question.HasAnswer(id) {
				return validationf("answer %d does not belong to question %d", id, question.ID)
			}
		}

		outcome = &dto.SubmitOutcomeDTO{
			AttemptID:  attempt.ID,
			QuestionID: question.ID,
			Mode:       attempt.Test.Mode,
			Selected:   selected,
		}

		isCorrect := false
		if attempt.Test.Mode == model.ModeLearning {
			correct, err := s.answerRepo.WithTx(tx).CorrectIDsByQuestion(ctx, question.ID)
			if err != nil {
				return err
			}
			isCorrect = IsCorrect(selected, correct)
			outcome.Graded = true
			outcome.IsCorrect = &isCorrect
			outcome.Correct = normalizeSelection(correct)
			outcome.Explanation = question.Explanation
		}

		ua := model.UserAnswer{
			TestAttemptID: attempt.ID,
			QuestionID:    question.ID,
			IsCorrect:     isCorrect,
			Selections:    make([]model.UserAnswerSelection, 0, len(selected)),
		}
		for _, id := range selected {
			ua.Selections = append(ua.Selections, model.UserAnswerSelection{AnswerID: id})
		}
		return s.userAnswerRepo.WithTx(tx).Replace(ctx, &ua)
	})
	if err != nil {
		if !isDomainError(err) {
			log.Error().Err(err).Uint("attemptID", attemptID).Uint("questionID", req.QuestionID).Msg("Failed to store submitted answer")
		}
		return nil, err
	}

	log.Info().Uint("attemptID", attemptID).Uint("questionID", req.QuestionID).Int("selected", len(selected)).Msg("Answer submitted")
	return outcome, nil
}

func (s *attemptService) Advance(ctx context.Context, userID, attemptID uint) (*dto.AdvanceDTO, error) {
	if err := s.gate.Require(ctx, userID, s.now()); err != nil {
		return nil, err
	}

	var out *dto.AdvanceDTO
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		attemptRepo := s.attemptRepo.WithTx(tx)
		attempt, err := loadOwned(ctx, attemptRepo, userID, attemptID, true)
		if err != nil {
			return err
		}
		if attempt.Completed {
			return attemptCompleted(attempt.ID)
		}
		count, err := s.questionRepo.WithTx(tx).CountByTestID(ctx, attempt.TestID)
		if err != nil {
			return err
		}
		total := int(count)
		if attempt.CurrentIndex >= total {
			return &StateError{AttemptID: attempt.ID, Reason: "no questions left", Redirect: RedirectFinish}
		}

		next := attempt.CurrentIndex + 1
		if err := attemptRepo.UpdateCursor(ctx, attempt.ID, next); err != nil {
			return err
		}
		out = &dto.AdvanceDTO{AttemptID: attempt.ID, Index: next, Total: total, EndOfTest: next >= total}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *attemptService) ListMyAttempts(ctx context.Context, userID, testID uint) ([]dto.AttemptDTO, error) {
	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, notFound(err, "test", testID)
	}
	count, err := s.questionRepo.CountByTestID(ctx, testID)
	if err != nil {
		return nil, err
	}
	attempts, err := s.attemptRepo.FindAllByTestAndUser(ctx, testID, userID)
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Uint("userID", userID).Msg("Failed to list attempts")
		return nil, fmt.Errorf("error fetching attempts: %w", err)
	}

	out := make([]dto.AttemptDTO, 0, len(attempts))
	for i := range attempts {
		attempts[i].Test = *test
		out = append(out, toAttemptDTO(&attempts[i], int(count)))
	}
	return out, nil
}
