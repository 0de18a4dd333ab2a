package repository

import (
	"context"
	"testing"
	"time"

	"github.com/quizline/quizline/internal/model"
	"github.com/quizline/quizline/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var colors = []testdb.Q{
	{Text: "Primary red?", Answers: []string{"Red", "Green", "Blue", "Pink"}, Correct: []int{0}},
	{Text: "Cool colors?", Answers: []string{"Red", "Orange", "Blue", "Green"}, Correct: []int{2, 3}},
}

func TestTestRepository_ListOrderAndCounts(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewTestRepository(db)

	b := testdb.SeedTest(t, db, "Beta", model.ModeExam, colors...)
	a := testdb.SeedTest(t, db, "Alpha", model.ModeLearning)
	c := testdb.SeedTest(t, db, "Gamma", model.ModeExam, colors[0])
	require.NoError(t, db.Model(&model.Test{}).Where("id = ?", c.ID).Update("position", 1).Error)

	rows, err := repo.FindAllWithQuestionCount(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []uint{a.ID, b.ID, c.ID}, []uint{rows[0].ID, rows[1].ID, rows[2].ID})
	assert.Equal(t, []int{0, 2, 1}, []int{rows[0].QuestionCount, rows[1].QuestionCount, rows[2].QuestionCount})
}

func TestTestRepository_UpdatePositionsIsAtomic(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewTestRepository(db)

	a := testdb.SeedTest(t, db, "A", model.ModeExam)
	b := testdb.SeedTest(t, db, "B", model.ModeExam)

	err := repo.UpdatePositions(ctx, []uint{b.ID, a.ID, 999})
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	got, err := repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Position, "failed reorder must roll back")

	require.NoError(t, repo.UpdatePositions(ctx, []uint{b.ID, a.ID}))
	got, err = repo.FindByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Position)
}

func TestTestRepository_DeleteCascades(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	test := testdb.SeedTest(t, db, "Colors", model.ModeExam, colors...)

	attempt := model.TestAttempt{UserID: 1, TestID: test.ID, StartTime: time.Now()}
	require.NoError(t, NewTestAttemptRepository(db).Create(ctx, &attempt))
	q := test.Questions[0]
	require.NoError(t, NewUserAnswerRepository(db).Replace(ctx, &model.UserAnswer{
		TestAttemptID: attempt.ID,
		QuestionID:    q.ID,
		Selections:    []model.UserAnswerSelection{{AnswerID: q.Answers[0].ID}},
	}))

	require.NoError(t, NewTestRepository(db).Delete(ctx, test.ID))

	for _, m := range []interface{}{&model.Test{}, &model.Question{}, &model.Answer{}, &model.TestAttempt{}, &model.UserAnswer{}, &model.UserAnswerSelection{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		assert.Zero(t, n, "%T rows left", m)
	}
	assert.ErrorIs(t, NewTestRepository(db).Delete(ctx, test.ID), gorm.ErrRecordNotFound)
}

func TestQuestionRepository_OrderedByPositionThenID(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	test := testdb.SeedTest(t, db, "Order", model.ModeExam, colors...)
	repo := NewQuestionRepository(db)

	late := model.Question{TestID: test.ID, Text: "first by position", Position: 0,
		Answers: []model.Answer{{Text: "x", IsCorrect: true}}}
	require.NoError(t, repo.Create(ctx, &late))

	qs, err := repo.FindOrderedByTestID(ctx, test.ID)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, []uint{test.Questions[0].ID, late.ID, test.Questions[1].ID}, []uint{qs[0].ID, qs[1].ID, qs[2].ID})
	assert.Len(t, qs[2].Answers, 4)

	n, err := repo.CountByTestID(ctx, test.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestAnswerRepository_CorrectIDs(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	test := testdb.SeedTest(t, db, "Colors", model.ModeExam, colors...)
	q2 := test.Questions[1]
	repo := NewAnswerRepository(db)

	ids, err := repo.CorrectIDsByQuestion(ctx, q2.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.AnswerID{q2.Answers[2].ID, q2.Answers[3].ID}, ids)

	answers, err := repo.FindByIDs(ctx, []model.AnswerID{q2.Answers[3].ID, q2.Answers[0].ID})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "Red", answers[0].Text)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUserAnswerRepository_ReplaceKeepsOneRow(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	test := testdb.SeedTest(t, db, "Colors", model.ModeExam, colors...)
	attempt := model.TestAttempt{UserID: 1, TestID: test.ID, StartTime: time.Now()}
	require.NoError(t, NewTestAttemptRepository(db).Create(ctx, &attempt))
	q := test.Questions[1]
	repo := NewUserAnswerRepository(db)

	first := model.UserAnswer{TestAttemptID: attempt.ID, QuestionID: q.ID, Selections: []model.UserAnswerSelection{
		{AnswerID: q.Answers[0].ID}, {AnswerID: q.Answers[1].ID},
	}}
	require.NoError(t, repo.Replace(ctx, &first))

	second := model.UserAnswer{TestAttemptID: attempt.ID, QuestionID: q.ID, IsCorrect: true, Selections: []model.UserAnswerSelection{
		{AnswerID: q.Answers[2].ID},
	}}
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		return repo.WithTx(tx).Replace(ctx, &second)
	}))

	all, err := repo.FindByAttempt(ctx, attempt.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []model.AnswerID{q.Answers[2].ID}, all[0].SelectedIDs())
	assert.True(t, all[0].IsCorrect)

	var selections int64
	require.NoError(t, db.Model(&model.UserAnswerSelection{}).Count(&selections).Error)
	assert.EqualValues(t, 1, selections)

	require.NoError(t, repo.UpdateCorrectness(ctx, all[0].ID, false))
	got, err := repo.FindByAttemptAndQuestion(ctx, attempt.ID, q.ID)
	require.NoError(t, err)
	assert.False(t, got.IsCorrect)

	_, err = repo.FindByAttemptAndQuestion(ctx, attempt.ID, test.Questions[0].ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserAnswerRepository_UniquePerAttemptQuestion(t *testing.T) {
	db := testdb.Open(t)
	test := testdb.SeedTest(t, db, "Colors", model.ModeExam, colors...)
	attempt := model.TestAttempt{UserID: 1, TestID: test.ID, StartTime: time.Now()}
	require.NoError(t, db.Create(&attempt).Error)

	ua := model.UserAnswer{TestAttemptID: attempt.ID, QuestionID: test.Questions[0].ID}
	require.NoError(t, db.Omit("Selections", "Question").Create(&ua).Error)
	dup := model.UserAnswer{TestAttemptID: attempt.ID, QuestionID: test.Questions[0].ID}
	assert.Error(t, db.Omit("Selections", "Question").Create(&dup).Error)
}

func TestTestAttemptRepository_MarkCompletedOnce(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	test := testdb.SeedTest(t, db, "Colors", model.ModeExam, colors...)
	repo := NewTestAttemptRepository(db)

	attempt := model.TestAttempt{UserID: 5, TestID: test.ID, StartTime: time.Now()}
	require.NoError(t, repo.Create(ctx, &attempt))
	require.NoError(t, repo.UpdateCursor(ctx, attempt.ID, 1))

	score := 50.0
	ok, err := repo.MarkCompleted(ctx, attempt.ID, time.Now(), &score)
	require.NoError(t, err)
	assert.True(t, ok)

	other := 100.0
	ok, err = repo.MarkCompleted(ctx, attempt.ID, time.Now(), &other)
	require.NoError(t, err)
	assert.False(t, ok)

	var locked *model.TestAttempt
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		locked, err = repo.WithTx(tx).FindByIDForUpdate(ctx, attempt.ID)
		return err
	}))
	assert.True(t, locked.Completed)
	assert.Equal(t, 1, locked.CurrentIndex)
	require.NotNil(t, locked.Score)
	assert.Equal(t, 50.0, *locked.Score)
	assert.Equal(t, "Colors", locked.Test.Name)

	list, err := repo.FindAllByTestAndUser(ctx, test.ID, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = repo.FindAllByTestAndUser(ctx, test.ID, 6)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUserProfileRepository(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	repo := NewUserProfileRepository(db)

	_, err := repo.FindByUserID(ctx, 9)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.ErrorIs(t, repo.SetBlockedUntil(ctx, 9, nil), gorm.ErrRecordNotFound)

	p1, err := repo.EnsureForUser(ctx, 9)
	require.NoError(t, err)
	p2, err := repo.EnsureForUser(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, p1.ID, p2.ID)

	until := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, repo.SetBlockedUntil(ctx, 9, &until))
	got, err := repo.FindByUserID(ctx, 9)
	require.NoError(t, err)
	require.NotNil(t, got.BlockedUntil)
	assert.True(t, until.Equal(*got.BlockedUntil))

	require.NoError(t, repo.SetBlockedUntil(ctx, 9, nil))
	got, err = repo.FindByUserID(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, got.BlockedUntil)
}
