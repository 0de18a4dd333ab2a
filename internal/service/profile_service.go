package service

import (
	"context"
	"fmt"
	"time"

	"github.com/quizline/quizline/internal/dto"
	"github.com/quizline/quizline/internal/model"
	"github.com/quizline/quizline/internal/repository"
	"github.com/rs/zerolog/log"
)

// ProfileService provisions user profiles and manages block windows.
type ProfileService interface {
	Provision(ctx context.Context, userID uint) (*dto.ProfileDTO, error)
	Get(ctx context.Context, userID uint) (*dto.ProfileDTO, error)
	Block(ctx context.Context, userID uint, until time.Time) (*dto.ProfileDTO, error)
	Unblock(ctx context.Context, userID uint) (*dto.ProfileDTO, error)
}

type profileService struct {
	profileRepo repository.UserProfileRepository
	now         Clock
}

func NewProfileService(profileRepo repository.UserProfileRepository, now Clock) ProfileService {
	return &profileService{profileRepo: profileRepo, now: now}
}

func (s *profileService) toDTO(p *model.UserProfile) *dto.ProfileDTO {
	return &dto.ProfileDTO{
		UserID:       p.UserID,
		BlockedUntil: p.BlockedUntil,
		Blocked:      p.BlockedAt(s.now()),
		CreatedAt:    p.CreatedAt,
	}
}

func (s *profileService) Provision(ctx context.Context, userID uint) (*dto.ProfileDTO, error) {
	if userID == 0 {
		return nil, validationf("user id is required")
	}
	profile, err := s.profileRepo.EnsureForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to provision user profile")
		return nil, fmt.Errorf("provision profile: %w", err)
	}
	return s.toDTO(profile), nil
}

func (s *profileService) Get(ctx context.Context, userID uint) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "profile of user", userID)
	}
	return s.toDTO(profile), nil
}

func (s *profileService) Block(ctx context.Context, userID uint, until time.Time) (*dto.ProfileDTO, error) {
	if !until.After(s.now()) {
		return nil, validationf("block expiry %s is not in the future", until.Format(time.RFC3339))
	}
	until = until.UTC()
	if err := s.profileRepo.SetBlockedUntil(ctx, userID, &until); err != nil {
		return nil, notFound(err, "profile of user", userID)
	}
	log.Info().Uint("userID", userID).Time("blockedUntil", until).Msg("User blocked")
	return s.Get(ctx, userID)
}

func (s *profileService) Unblock(ctx context.Context, userID uint) (*dto.ProfileDTO, error) {
	if err := s.profileRepo.SetBlockedUntil(ctx, userID, nil); err != nil {
		return nil, notFound(err, "profile of user", userID)
	}
	log.Info().Uint("userID", userID).Msg("User unblocked")
	return s.Get(ctx, userID)
}
