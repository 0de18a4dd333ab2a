package repository

import (
	"context"

	"github.com/quizline/quizline/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	// Create inserts the question together with its answers.
	Create(ctx context.Context, question *model.Question) error
	FindByID(ctx context.Context, id uint) (*model.Question, error)
	FindOrderedByTestID(ctx context.Context, testID uint) ([]model.Question, error)
	CountByTestID(ctx context.Context, testID uint) (int64, error)
	WithTx(tx *gorm.DB) QuestionRepository
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) WithTx(tx *gorm.DB) QuestionRepository {
	return &questionRepository{db: tx}
}

func (r *questionRepository) Create(ctx context.Context, question *model.Question) error {
	return r.db.WithContext(ctx).Create(question).Error
}

func (r *questionRepository) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	var question model.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id ASC") }).
		First(&question, id).Error
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// FindOrderedByTestID returns the test's questions, answers loaded, in test order.
func (r *questionRepository) FindOrderedByTestID(ctx context.Context, testID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("answers.id ASC") }).
		Where("test_id = ?", testID).
		Order("position ASC, id ASC").
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	model.SortQuestions(questions)
	return questions, nil
}

func (r *questionRepository) CountByTestID(ctx context.Context, testID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Question{}).Where("test_id = ?", testID).Count(&n).Error
	return n, err
}
