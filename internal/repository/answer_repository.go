package repository

import (
	"context"

	"github.com/quizline/quizline/internal/model"
	"gorm.io/gorm"
)

// AnswerRepository reads answer choices and their correctness flags.
type AnswerRepository interface {
	CorrectIDsByQuestion(ctx context.Context, questionID uint) ([]model.AnswerID, error)
	FindByIDs(ctx context.Context, ids []model.AnswerID) ([]model.Answer, error)
	WithTx(tx *gorm.DB) AnswerRepository
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) WithTx(tx *gorm.DB) AnswerRepository {
	return &answerRepository{db: tx}
}

func (r *answerRepository) CorrectIDsByQuestion(ctx context.Context, questionID uint) ([]model.AnswerID, error) {
	var ids []model.AnswerID
	err := r.db.WithContext(ctx).Model(&model.Answer{}).
		Where("question_id = ? AND is_correct = ?", questionID, true).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *answerRepository) FindByIDs(ctx context.Context, ids []model.AnswerID) ([]model.Answer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var answers []model.Answer
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&answers).Error
	return answers, err
}
