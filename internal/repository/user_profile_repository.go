package repository

import (
	"context"
	"time"

	"github.com/quizline/quizline/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProfileRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.UserProfile, error)
	// EnsureForUser creates the profile if missing and returns the stored row.
	EnsureForUser(ctx context.Context, userID uint) (*model.UserProfile, error)
	SetBlockedUntil(ctx context.Context, userID uint, until *time.Time) error
}

type userProfileRepository struct {
	db *gorm.DB
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &userProfileRepository{db: db}
}

func (r *userProfileRepository) FindByUserID(ctx context.Context, userID uint) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userProfileRepository) EnsureForUser(ctx context.Context, userID uint) (*model.UserProfile, error) {
	profile := model.UserProfile{UserID: userID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&profile).Error
	if err != nil {
		return nil, err
	}
	return r.FindByUserID(ctx, userID)
}

func (r *userProfileRepository) SetBlockedUntil(ctx context.Context, userID uint, until *time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.UserProfile{}).
		Where("user_id = ?", userID).
		Update("blocked_until", until)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
