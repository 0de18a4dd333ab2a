package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/quizline/quizline/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AnswersPerQuestion is the number of choices every question must carry.
const AnswersPerQuestion = 4

// CatalogService manages tests and their questions for staff and lists them for users.
type CatalogService interface {
	CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestResponseDTO, error)
	ListTests(ctx context.Context) ([]dto.TestSummaryDTO, error)
	GetTest(ctx context.Context, testID uint) (*dto.TestResponseDTO, error)
	AddQuestion(ctx context.Context, testID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	ReorderTests(ctx context.Context, orderedIDs []uint) error
	DeleteTest(ctx context.Context, testID uint) error
}

type catalogService struct {
	db           *gorm.DB
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
}

func NewCatalogService(db *gorm.DB, testRepo repository.TestRepository, questionRepo repository.QuestionRepository) CatalogService {
	return &catalogService{db: db, testRepo: testRepo, questionRepo: questionRepo}
}

func (s *catalogService) CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestResponseDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationf("test name is required")
	}
	if !req.Mode.Valid() {
		return nil, validationf("unknown test mode %q", req.Mode)
	}
	if req.Position < 0 {
		return nil, validationf("position must not be negative")
	}

	test := model.Test{
		Name:        name,
		Description: req.Description,
		Mode:        req.Mode,
		Position:    req.Position,
	}
	if err := s.testRepo.Create(ctx, &test); err != nil {
		log.Error().Err(err).Msg("Failed to create test in database")
		return nil, fmt.Errorf("database error creating test: %w", err)
	}
	log.Info().Uint("testID", test.ID).Str("mode", string(test.Mode)).Msg("Test created")
	return toTestResponse(&test)
}

func (s *catalogService) ListTests(ctx context.Context) ([]dto.TestSummaryDTO, error) {
	testsWithCount, err := s.testRepo.FindAllWithQuestionCount(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get all tests with question count from repository")
		return nil, fmt.Errorf("error fetching tests: %w", err)
	}

	dtos := make([]dto.TestSummaryDTO, 0, len(testsWithCount))
	for _, twc := range testsWithCount {
		dtos = append(dtos, dto.TestSummaryDTO{
			ID:            twc.Test.ID,
			Name:          twc.Test.Name,
			Description:   twc.Test.Description,
			Mode:          twc.Test.Mode,
			Position:      twc.Test.Position,
			QuestionCount: twc.QuestionCount,
			CreatedAt:     twc.Test.CreatedAt,
		})
	}
	return dtos, nil
}

func (s *catalogService) GetTest(ctx context.Context, testID uint) (*dto.TestResponseDTO, error) {
	test, err := s.testRepo.FindByIDWithQuestions(ctx, testID)
	if err != nil {
		log.Warn().Err(err).Uint("testID", testID).Msg("Failed to get test details from repository")
		return nil, notFound(err, "test", testID)
	}
	resp, err := toTestResponse(test)
	if err != nil {
		log.Error().Err(err).Msg("Failed to copy Test model to TestResponseDTO")
		return nil, fmt.Errorf("error preparing test details response: %w", err)
	}
	return resp, nil
}

// validateQuestion enforces the answer policy: exactly four choices, at least one correct.
func validateQuestion(req dto.QuestionCreateDTO) error {
	if strings.TrimSpace(req.Text) == "" {
		return validationf("question text is required")
	}
	if len(req.Answers) != AnswersPerQuestion {
		return validationf("a question must have exactly %d answers, received %d", AnswersPerQuestion, len(req.Answers))
	}
	correct := 0
	for i, a := range req.Answers {
		if strings.TrimSpace(a.Text) == "" {
			return validationf("answer %d has no text", i+1)
		}
		if a.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return validationf("at least one answer must be marked correct")
	}
	return nil
}

func (s *catalogService) AddQuestion(ctx context.Context, testID uint, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	question := model.Question{
		TestID:      testID,
		Text:        strings.TrimSpace(req.Text),
		ImageURL:    req.ImageURL,
		Explanation: req.Explanation,
	}
	for _, a := range req.Answers {
		question.Answers = append(question.Answers, model.Answer{Text: strings.TrimSpace(a.Text), IsCorrect: a.IsCorrect})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.testRepo.WithTx(tx).FindByID(ctx, testID); err != nil {
			return notFound(err, "test", testID)
		}
		questionRepo := s.questionRepo.WithTx(tx)
		if req.Position != nil {
			question.Position = *req.Position
		} else {
			count, err := questionRepo.CountByTestID(ctx, testID)
			if err != nil {
				return err
			}
			question.Position = int(count)
		}
		return questionRepo.Create(ctx, &question)
	})
	if err != nil {
		if !isDomainError(err) {
			log.Error().Err(err).Uint("testID", testID).Msg("Failed to add question")
		}
		return nil, err
	}

	log.Info().Uint("testID", testID).Uint("questionID", question.ID).Msg("Question added")
	return &dto.QuestionResponseDTO{
		ID:          question.ID,
		TestID:      question.TestID,
		Text:        question.Text,
		ImageURL:    question.ImageURL,
		Explanation: question.Explanation,
		Position:    question.Position,
		Answers:     toAnswerResponses(question.Answers),
	}, nil
}

func (s *catalogService) ReorderTests(ctx context.Context, orderedIDs []uint) error {
	if len(orderedIDs) == 0 {
		return validationf("test order is empty")
	}
	seen := make(map[uint]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return validationf("test %d listed twice", id)
		}
		seen[id] = struct{}{}
	}

	if err := s.testRepo.UpdatePositions(ctx, orderedIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: one or more tests in the new order do not exist", ErrNotFound)
		}
		log.Error().Err(err).Msg("Failed to reorder tests")
		return err
	}
	log.Info().Int("count", len(orderedIDs)).Msg("Tests reordered")
	return nil
}

func (s *catalogService) DeleteTest(ctx context.Context, testID uint) error {
	if err := s.testRepo.Delete(ctx, testID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(err, "test", testID)
		}
		log.Error().Err(err).Uint("testID", testID).Msg("Failed to delete test")
		return err
	}
	log.Info().Uint("testID", testID).Msg("Test deleted")
	return nil
}
