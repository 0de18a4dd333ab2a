package service

import (
	"context"
	"testing"
	"time"

	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/quizline/quizline/internal/repository"
	"github.com/quizline/quizline/internal/testdb"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	alice uint = 1
	bob   uint = 2
)

type fixture struct {
	db       *gorm.DB
	now      time.Time
	gate     AccessGate
	attempts AttemptService
	scoring  ScoringService
	results  ResultService
	catalog  CatalogService
	profiles ProfileService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	f := &fixture{db: db, now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	clock := Clock(func() time.Time { return f.now })

	testRepo := repository.NewTestRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	attemptRepo := repository.NewTestAttemptRepository(db)
	userAnswerRepo := repository.NewUserAnswerRepository(db)
	profileRepo := repository.NewUserProfileRepository(db)

	f.gate = NewAccessGate(profileRepo)
	f.attempts = NewAttemptService(db, testRepo, questionRepo, answerRepo, attemptRepo, userAnswerRepo, f.gate, clock)
	f.scoring = NewScoringService(db, questionRepo, attemptRepo, userAnswerRepo, NewScoreConverterService(), clock)
	f.results = NewResultService(questionRepo, answerRepo, attemptRepo, userAnswerRepo)
	f.catalog = NewCatalogService(db, testRepo, questionRepo)
	f.profiles = NewProfileService(profileRepo, clock)
	return f
}

// colors seeds the two-question test: Q1 correct {A1}, Q2 correct {A3, A4}.
func (f *fixture) colors(t *testing.T, mode model.TestMode) *model.Test {
	return testdb.SeedTest(t, f.db, "Colors", mode,
		testdb.Q{Text: "Q1", Answers: []string{"A1", "A2", "A3", "A4"}, Correct: []int{0}},
		testdb.Q{Text: "Q2", Answers: []string{"A1", "A2", "A3", "A4"}, Correct: []int{2, 3}},
	)
}

func (f *fixture) start(t *testing.T, user uint, test *model.Test) *dto.AttemptDTO {
	t.Helper()
	a, err := f.attempts.Start(context.Background(), user, test.ID)
	require.NoError(t, err)
	return a
}

func (f *fixture) submit(t *testing.T, user, attemptID uint, q model.Question, answerIdx ...int) *dto.SubmitOutcomeDTO {
	t.Helper()
	ids := make([]model.AnswerID, 0, len(answerIdx))
	for _, i := range answerIdx {
		ids = append(ids, q.Answers[i].ID)
	}
	out, err := f.attempts.SubmitAnswer(context.Background(), user, attemptID, dto.SubmitAnswerDTO{QuestionID: q.ID, AnswerIDs: ids})
	require.NoError(t, err)
	return out
}

func (f *fixture) userAnswers(t *testing.T, attemptID uint) []model.UserAnswer {
	t.Helper()
	answers, err := repository.NewUserAnswerRepository(f.db).FindByAttempt(context.Background(), attemptID)
	require.NoError(t, err)
	return answers
}
