// Package testdb opens throwaway in-memory databases for package tests.
package testdb

import (
	"fmt"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/quizline/quizline/database"
	"github.com/quizline/quizline/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open returns a migrated sqlite database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := url.QueryEscape(fmt.Sprintf("%s-%d", t.Name(), seq.Add(1)))
	db, err := database.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Q describes a question to seed: answer texts and the indexes of the correct ones.
type Q struct {
	Text    string
	Answers []string
	Correct []int
}

// SeedTest stores a test with its questions at positions 0..n-1 and returns it reloaded.
func SeedTest(t testing.TB, db *gorm.DB, name string, mode model.TestMode, qs ...Q) *model.Test {
	t.Helper()
	test := model.Test{Name: name, Mode: mode}
	require.NoError(t, db.Create(&test).Error)

	for i, q := range qs {
		question := model.Question{TestID: test.ID, Text: q.Text, Position: i}
		for j, text := range q.Answers {
			correct := false
			for _, c := range q.Correct {
				if c == j {
					correct = true
				}
			}
			question.Answers = append(question.Answers, model.Answer{Text: text, IsCorrect: correct})
		}
		require.NoError(t, db.Create(&question).Error)
	}

	var loaded model.Test
	require.NoError(t, db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&loaded, test.ID).Error)
	return &loaded
}
