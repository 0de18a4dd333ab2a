package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSortQuestions_PositionThenID(t *testing.T) {
	qs := []Question{
		{ID: 7, Position: 2},
		{ID: 3, Position: 1},
		{ID: 9, Position: 1},
		{ID: 1, Position: 2},
		{ID: 5, Position: 0},
	}
	SortQuestions(qs)

	var got []uint
	for _, q := range qs {
		got = append(got, q.ID)
	}
	assert.Equal(t, []uint{5, 3, 9, 1, 7}, got)
}

func TestQuestion_CorrectAnswerIDs(t *testing.T) {
	q := Question{Answers: []Answer{
		{ID: 10, IsCorrect: false},
		{ID: 11, IsCorrect: true},
		{ID: 12, IsCorrect: true},
	}}
	assert.Equal(t, []AnswerID{11, 12}, q.CorrectAnswerIDs())
	assert.True(t, q.HasAnswer(10))
	assert.False(t, q.HasAnswer(99))
}

func TestUserProfile_BlockedAt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Minute)

	assert.False(t, UserProfile{}.BlockedAt(now))
	assert.True(t, UserProfile{BlockedUntil: &future}.BlockedAt(now))
	assert.False(t, UserProfile{BlockedUntil: &past}.BlockedAt(now))
	// the window is open strictly before the expiry
	assert.False(t, UserProfile{BlockedUntil: &now}.BlockedAt(now))
}

func TestTestMode_Valid(t *testing.T) {
	assert.True(t, ModeLearning.Valid())
	assert.True(t, ModeExam.Valid())
	assert.False(t, TestMode("survey").Valid())
}
