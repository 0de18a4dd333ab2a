package repository

import (
	"context"

	"github.com/quizline/quizline/internal/model"
	"gorm.io/gorm"
)

type UserAnswerRepository interface {
	// Replace drops any existing answer for (attempt, question) and stores ua in its place.
	// Callers run it inside a transaction.
	Replace(ctx context.Context, ua *model.UserAnswer) error
	FindByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*model.UserAnswer, error)
	FindByAttempt(ctx context.Context, attemptID uint) ([]model.UserAnswer, error)
	UpdateCorrectness(ctx context.Context, id uint, isCorrect bool) error
	WithTx(tx *gorm.DB) UserAnswerRepository
}

type userAnswerRepository struct {
	db *gorm.DB
}

func NewUserAnswerRepository(db *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: db}
}

func (r *userAnswerRepository) WithTx(tx *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: tx}
}

func (r *userAnswerRepository) Replace(ctx context.Context, ua *model.UserAnswer) error {
	db := r.db.WithContext(ctx)

	existing := db.Model(&model.UserAnswer{}).Select("id").
		Where("test_attempt_id = ? AND question_id = ?", ua.TestAttemptID, ua.QuestionID)
	if err := db.Where("user_answer_id IN (?)", existing).Delete(&model.UserAnswerSelection{}).Error; err != nil {
		return err
	}
	if err := db.Where("test_attempt_id = ? AND question_id = ?", ua.TestAttemptID, ua.QuestionID).
		Delete(&model.UserAnswer{}).Error; err != nil {
		return err
	}

	selections := ua.Selections
	ua.ID = 0
	if err := db.Omit("Selections", "Question").Create(ua).Error; err != nil {
		return err
	}
	for i := range selections {
		selections[i].UserAnswerID = ua.ID
	}
	if len(selections) > 0 {
		if err := db.Omit("Answer").Create(&selections).Error; err != nil {
			return err
		}
	}
	ua.Selections = selections
	return nil
}

func (r *userAnswerRepository) FindByAttemptAndQuestion(ctx context.Context, attemptID, questionID uint) (*model.UserAnswer, error) {
	var ua model.UserAnswer
	err := r.db.WithContext(ctx).
		Preload("Selections", func(db *gorm.DB) *gorm.DB { return db.Order("answer_id ASC") }).
		Where("test_attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&ua).Error
	if err != nil {
		return nil, err
	}
	return &ua, nil
}

func (r *userAnswerRepository) FindByAttempt(ctx context.Context, attemptID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.db.WithContext(ctx).
		Preload("Selections", func(db *gorm.DB) *gorm.DB { return db.Order("answer_id ASC") }).
		Where("test_attempt_id = ?", attemptID).
		Order("id ASC").
		Find(&answers).Error
	return answers, err
}

func (r *userAnswerRepository) UpdateCorrectness(ctx context.Context, id uint, isCorrect bool) error {
	return r.db.WithContext(ctx).Model(&model.UserAnswer{}).
		Where("id = ?", id).
		Update("is_correct", isCorrect).Error
}
