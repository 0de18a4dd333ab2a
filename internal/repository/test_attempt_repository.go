package repository

import (
	"context"
	"time"

	"github.com/quizline/quizline/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestAttemptRepository interface {
	Create(ctx context.Context, attempt *model.TestAttempt) error
	FindByID(ctx context.Context, id uint) (*model.TestAttempt, error)
	// FindByIDForUpdate row-locks the attempt until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*model.TestAttempt, error)
	FindAllByTestAndUser(ctx context.Context, testID, userID uint) ([]model.TestAttempt, error)
	UpdateCursor(ctx context.Context, id uint, index int) error
	// MarkCompleted finalizes an open attempt. It returns false if the attempt was already completed.
	MarkCompleted(ctx context.Context, id uint, endTime time.Time, score *float64) (bool, error)
	WithTx(tx *gorm.DB) TestAttemptRepository
}

type testAttemptRepository struct {
	db *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: db}
}

func (r *testAttemptRepository) WithTx(tx *gorm.DB) TestAttemptRepository {
	return &testAttemptRepository{db: tx}
}

func (r *testAttemptRepository) Create(ctx context.Context, attempt *model.TestAttempt) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(attempt).Error
}

func (r *testAttemptRepository) FindByID(ctx context.Context, id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	if err := r.db.WithContext(ctx).Preload("Test").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.TestAttempt, error) {
	var attempt model.TestAttempt
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&attempt, id).Error
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(&attempt.Test, attempt.TestID).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *testAttemptRepository) FindAllByTestAndUser(ctx context.Context, testID, userID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.db.WithContext(ctx).
		Where("test_id = ? AND user_id = ?", testID, userID).
		Order("start_time DESC, id DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *testAttemptRepository) UpdateCursor(ctx context.Context, id uint, index int) error {
	return r.db.WithContext(ctx).Model(&model.TestAttempt{}).
		Where("id = ?", id).
		Update("current_index", index).Error
}

func (r *testAttemptRepository) MarkCompleted(ctx context.Context, id uint, endTime time.Time, score *float64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.TestAttempt{}).
		Where("id = ? AND completed = ?", id, false).
		Updates(map[string]interface{}{
			"completed": true,
			"end_time":  endTime,
			"score":     score,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
