package service

import (
	"context"
	"errors"
	"time"

	"github.com/quizline/quizline/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AccessDecision struct {
	Allowed      bool
	BlockedUntil *time.Time
}

type AccessGate interface {
	CanProceed(ctx context.Context, userID uint, now time.Time) (AccessDecision, error)
	// Require returns a *BlockedError when CanProceed denies.
	Require(ctx context.Context, userID uint, now time.Time) error
}

type accessGate struct {
	profileRepo repository.UserProfileRepository
}

func NewAccessGate(profileRepo repository.UserProfileRepository) AccessGate {
	return &accessGate{profileRepo: profileRepo}
}

func (g *accessGate) CanProceed(ctx context.Context, userID uint, now time.Time) (AccessDecision, error) {
	profile, err := g.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return AccessDecision{Allowed: true}, nil
	}
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("Failed to load user profile for access check")
		return AccessDecision{}, err
	}
	if profile.BlockedAt(now) {
		until := *profile.BlockedUntil
		return AccessDecision{Allowed: false, BlockedUntil: &until}, nil
	}
	return AccessDecision{Allowed: true}, nil
}

func (g *accessGate) Require(ctx context.Context, userID uint, now time.Time) error {
	decision, err := g.CanProceed(ctx, userID, now)
	if err != nil {
		return err
	}
	if !decision.Allowed {
		log.Info().Uint("userID", userID).Time("blockedUntil", *decision.BlockedUntil).Msg("Blocked user denied")
		return &BlockedError{Until: *decision.BlockedUntil}
	}
	return nil
}
