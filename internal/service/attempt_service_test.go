package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_CreatesIndependentAttempts(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeExam)

	first := f.start(t, alice, test)
	second := f.start(t, alice, test)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 0, second.CurrentIndex)
	assert.Equal(t, 2, second.QuestionCount)
	assert.Equal(t, model.ModeExam, second.Mode)
	assert.False(t, second.Completed)
	assert.Nil(t, second.Score)
	assert.True(t, f.now.Equal(second.StartTime))

	mine, err := f.attempts.ListMyAttempts(context.Background(), alice, test.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	theirs, err := f.attempts.ListMyAttempts(context.Background(), bob, test.ID)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestStart_UnknownTest(t *testing.T) {
	f := newFixture(t)
	_, err := f.attempts.Start(context.Background(), alice, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetQuestion_OrderAndEndOfTest(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeLearning)
	attempt := f.start(t, alice, test)
	ctx := context.Background()

	step, err := f.attempts.GetQuestion(ctx, alice, attempt.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, step.Question)
	assert.False(t, step.EndOfTest)
	assert.Equal(t, 2, step.Total)
	assert.Equal(t, test.Questions[1].ID, step.Question.ID)
	assert.Len(t, step.Question.Answers, 4)
	assert.Empty(t, step.Question.Selected)

	f.submit(t, alice, attempt.ID, test.Questions[1], 3, 2)
	step, err = f.attempts.GetQuestion(ctx, alice, attempt.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, []model.AnswerID{test.Questions[1].Answers[2].ID, test.Questions[1].Answers[3].ID}, step.Question.Selected)

	step, err = f.attempts.GetQuestion(ctx, alice, attempt.ID, 2)
	require.NoError(t, err)
	assert.True(t, step.EndOfTest)
	assert.Nil(t, step.Question)

	_, err = f.attempts.GetQuestion(ctx, alice, attempt.ID, -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmit_LearningGradesImmediately(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeLearning)
	attempt := f.start(t, alice, test)
	q1 := test.Questions[0]

	out := f.submit(t, alice, attempt.ID, q1, 0)
	assert.True(t, out.Graded)
	require.NotNil(t, out.IsCorrect)
	assert.True(t, *out.IsCorrect)
	assert.Equal(t, []model.AnswerID{q1.Answers[0].ID}, out.Selected)
	assert.Equal(t, []model.AnswerID{q1.Answers[0].ID}, out.Correct)

	stored := f.userAnswers(t, attempt.ID)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsCorrect)
}

func TestSubmit_ExamStoresPlaceholder(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeExam)
	attempt := f.start(t, alice, test)

	out := f.submit(t, alice, attempt.ID, test.Questions[0], 0)
	assert.False(t, out.Graded)
	assert.Nil(t, out.IsCorrect)
	assert.Empty(t, out.Correct)
	assert.Empty(t, out.Explanation)

	stored := f.userAnswers(t, attempt.ID)
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsCorrect, "exam answers are graded on finish")
}

func TestSubmit_ReplacesPreviousAnswer(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeLearning)
	attempt := f.start(t, alice, test)
	q2 := test.Questions[1]

	first := f.submit(t, alice, attempt.ID, q2, 2)
	assert.False(t, *first.IsCorrect)
	second := f.submit(t, alice, attempt.ID, q2, 2, 3)
	assert.True(t, *second.IsCorrect)

	stored := f.userAnswers(t, attempt.ID)
	require.Len(t, stored, 1)
	assert.ElementsMatch(t, []model.AnswerID{q2.Answers[2].ID, q2.Answers[3].ID}, stored[0].SelectedIDs())
	assert.True(t, stored[0].IsCorrect)
}

func TestSubmit_ConcurrentSubmitsKeepOneRow(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeLearning)
	attempt := f.start(t, alice, test)
	q2 := test.Questions[1]

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pick := q2.Answers[i%len(q2.Answers)].ID
			_, err := f.attempts.SubmitAnswer(context.Background(), alice, attempt.ID,
				dto.SubmitAnswerDTO{QuestionID: q2.ID, AnswerIDs: []model.AnswerID{pick}})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	stored := f.userAnswers(t, attempt.ID)
	require.Len(t, stored, 1)
	assert.Len(t, stored[0].Selections, 1)
	assert.True(t, q2.HasAnswer(stored[0].Selections[0].AnswerID))
}

func TestSubmit_EmptySelectionIsIncorrect(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeLearning)
	attempt := f.start(t, alice, test)

	out := f.submit(t, alice, attempt.ID, test.Questions[0])
	assert.False(t, *out.IsCorrect)
	assert.Empty(t, out.Selected)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeLearning)
	other := f.colors(t, model.ModeLearning)
	attempt := f.start(t, alice, test)
	ctx := context.Background()
	q1, q2 := test.Questions[0], test.Questions[1]

	cases := []struct {
		name string
		req  dto.SubmitAnswerDTO
		want error
	}{
		{"answer of another question", dto.SubmitAnswerDTO{QuestionID: q1.ID, AnswerIDs: []model.AnswerID{q1.Answers[0].ID, q2.Answers[0].ID}}, ErrValidation},
		{"unknown answer id", dto.SubmitAnswerDTO{QuestionID: q1.ID, AnswerIDs: []model.AnswerID{9999}}, ErrValidation},
		{"question of another test", dto.SubmitAnswerDTO{QuestionID: other.Questions[0].ID, AnswerIDs: []model.AnswerID{other.Questions[0].Answers[0].ID}}, ErrValidation},
		{"unknown question", dto.SubmitAnswerDTO{QuestionID: 9999}, ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.attempts.SubmitAnswer(ctx, alice, attempt.ID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.userAnswers(t, attempt.ID), "rejected submissions store nothing")
}

func TestAdvance_StopsAtEnd(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeExam)
	attempt := f.start(t, alice, test)
	ctx := context.Background()

	out, err := f.attempts.Advance(ctx, alice, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Index)
	assert.False(t, out.EndOfTest)

	out, err = f.attempts.Advance(ctx, alice, attempt.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Index)
	assert.True(t, out.EndOfTest)

	_, err = f.attempts.Advance(ctx, alice, attempt.ID)
	var stateErr *StateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, RedirectFinish, stateErr.Redirect)

	mine, err := f.attempts.ListMyAttempts(ctx, alice, test.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, mine[0].CurrentIndex)
}

func TestAttempt_OtherUserIsForbidden(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeExam)
	attempt := f.start(t, alice, test)
	ctx := context.Background()

	_, err := f.attempts.GetQuestion(ctx, bob, attempt.ID, 0)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.attempts.SubmitAnswer(ctx, bob, attempt.ID, dto.SubmitAnswerDTO{QuestionID: test.Questions[0].ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.attempts.Advance(ctx, bob, attempt.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.scoring.Finish(ctx, bob, attempt.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.attempts.GetQuestion(ctx, alice, 9999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAttempt_CompletedRejectsProgress(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeExam)
	attempt := f.start(t, alice, test)
	ctx := context.Background()
	_, err := f.scoring.Finish(ctx, alice, attempt.ID)
	require.NoError(t, err)

	_, err = f.attempts.SubmitAnswer(ctx, alice, attempt.ID, dto.SubmitAnswerDTO{QuestionID: test.Questions[0].ID})
	var stateErr *StateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, RedirectResults, stateErr.Redirect)

	_, err = f.attempts.GetQuestion(ctx, alice, attempt.ID, 0)
	assert.ErrorIs(t, err, ErrState)
	_, err = f.attempts.Advance(ctx, alice, attempt.ID)
	assert.ErrorIs(t, err, ErrState)
	_, err = f.scoring.Finish(ctx, alice, attempt.ID)
	assert.ErrorIs(t, err, ErrState)
}

func TestAccessGate_BlockWindow(t *testing.T) {
	f := newFixture(t)
	test := f.colors(t, model.ModeExam)
	ctx := context.Background()

	decision, err := f.gate.CanProceed(ctx, alice, f.now)
	require.NoError(t, err)
	assert.True(t, decision.Allowed, "users without a profile are not blocked")

	_, err = f.profiles.Provision(ctx, alice)
	require.NoError(t, err)
	attempt := f.start(t, alice, test)

	tomorrow := f.now.Add(24 * time.Hour)
	_, err = f.profiles.Block(ctx, alice, tomorrow)
	require.NoError(t, err)

	decision, err = f.gate.CanProceed(ctx, alice, f.now)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	require.NotNil(t, decision.BlockedUntil)
	assert.True(t, tomorrow.Equal(*decision.BlockedUntil))

	_, err = f.attempts.Start(ctx, alice, test.ID)
	var blocked *BlockedError
	require.True(t, errors.As(err, &blocked))
	assert.True(t, tomorrow.Equal(blocked.Until))
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.attempts.GetQuestion(ctx, alice, attempt.ID, 0)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.attempts.SubmitAnswer(ctx, alice, attempt.ID, dto.SubmitAnswerDTO{QuestionID: test.Questions[0].ID})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.attempts.Advance(ctx, alice, attempt.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.attempts.Start(ctx, bob, test.ID)
	assert.NoError(t, err, "blocks are per user")

	f.now = tomorrow.Add(time.Second)
	_, err = f.attempts.Start(ctx, alice, test.ID)
	assert.NoError(t, err, "access resumes once the block expires")
}
