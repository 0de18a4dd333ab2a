package model

import (
	"sort"
	"time"
)

type Question struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	TestID      uint      `json:"test_id" gorm:"not null;index"`
	Text        string    `json:"text" gorm:"type:text;not null"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Explanation string    `json:"explanation,omitempty" gorm:"type:text"`
	Position    int       `json:"position" gorm:"not null;default:0"`
	Answers     []Answer  `json:"answers,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SortQuestions puts questions in test order: position ascending, then id.
// Attempt traversal and result projection both read through it.
func SortQuestions(qs []Question) {
	sort.SliceStable(qs, func(i, j int) bool {
		if qs[i].Position != qs[j].Position {
			return qs[i].Position < qs[j].Position
		}
		return qs[i].ID < qs[j].ID
	})
}

// CorrectAnswerIDs returns the ids of answers flagged correct. Answers must be loaded.
func (q Question) CorrectAnswerIDs() []AnswerID {
	var ids []AnswerID
	for _, a := range q.Answers {
		if a.IsCorrect {
			ids = append(ids, a.ID)
		}
	}
	return ids
}

// HasAnswer reports whether id is one of the question's answers.
func (q Question) HasAnswer(id AnswerID) bool {
	for _, a := range q.Answers {
		if a.ID == id {
			return true
		}
	}
	return false
}
