package model

import "time"

// UserAnswer is the latest submission for one question of one attempt.
// The unique index keeps at most one row per (attempt, question).
type UserAnswer struct {
	ID            uint                  `gorm:"primarykey" json:"id"`
	TestAttemptID uint                  `json:"test_attempt_id" gorm:"not null;uniqueIndex:idx_user_answer_attempt_question"`
	QuestionID    uint                  `json:"question_id" gorm:"not null;uniqueIndex:idx_user_answer_attempt_question"`
	Question      Question              `json:"question,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	IsCorrect     bool                  `json:"is_correct" gorm:"not null;default:false"`
	Selections    []UserAnswerSelection `json:"selections,omitempty" gorm:"foreignKey:UserAnswerID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time             `json:"created_at"`
}

type UserAnswerSelection struct {
	UserAnswerID uint     `json:"user_answer_id" gorm:"primaryKey;autoIncrement:false"`
	AnswerID     AnswerID `json:"answer_id" gorm:"primaryKey;autoIncrement:false"`
	Answer       Answer   `json:"-" gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
}

func (ua UserAnswer) SelectedIDs() []AnswerID {
	ids := make([]AnswerID, 0, len(ua.Selections))
	for _, s := range ua.Selections {
		ids = append(ids, s.AnswerID)
	}
	return ids
}
