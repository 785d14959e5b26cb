package services

import (
	"context"
	"errors"
	"time"

	"github.com/izzat2702/KognitDeck/internal/entitlements"
	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

// UsageService owns the monthly usage ledger and the entitlement gate in
// front of card generation.
type UsageService interface {
	// Snapshot returns the current-period ledger with the entitlement row,
	// applying a pending rollover first.
	Snapshot(ctx context.Context, userID string) (*dto.UsageResponse, error)

	// Authorize runs the full pre-generation gate and returns the user row
	// the decision was made against. It never consumes quota.
	Authorize(ctx context.Context, userID string, format models.CardFormat, method models.InputMethod, count int) (*models.User, error)

	// Commit records actually-produced cards after generation succeeds.
	Commit(ctx context.Context, userID string, produced int) error

	// RolloverIfDue resets the counter when the user's anchor falls in an
	// earlier calendar month, persisting immediately. Reports whether a
	// reset happened and mutates the passed user to match.
	RolloverIfDue(ctx context.Context, user *models.User) (bool, error)
}

type UsageServiceImpl struct {
	users repositories.UserRepository
	now   func() time.Time
}

func NewUsageService(users repositories.UserRepository) UsageService {
	return &UsageServiceImpl{users: users, now: time.Now}
}

// NewUsageServiceWithClock injects the time source. Tests pin the clock to
// exercise period boundaries.
func NewUsageServiceWithClock(users repositories.UserRepository, now func() time.Time) UsageService {
	return &UsageServiceImpl{users: users, now: now}
}

func (s *UsageServiceImpl) Snapshot(ctx context.Context, userID string) (*dto.UsageResponse, error) {
	user, err := s.loadWithRollover(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := buildUsageResponse(user)
	return &resp, nil
}

func (s *UsageServiceImpl) Authorize(ctx context.Context, userID string, format models.CardFormat, method models.InputMethod, count int) (*models.User, error) {
	user, err := s.loadWithRollover(ctx, userID)
	if err != nil {
		return nil, err
	}

	limits := entitlements.ForPlan(user.Plan)

	if !limits.HasUnlimitedCards() {
		remaining := limits.CardsPerMonth - user.CardsGeneratedThisMonth
		if remaining < 0 {
			remaining = 0
		}
		if count > remaining {
			return nil, apperrors.ErrQuotaExceeded(remaining, limits.CardsPerMonth)
		}
	}

	if !limits.AllowsFormat(format) {
		return nil, apperrors.ErrFormatNotAllowed
	}

	if method == models.InputTopic && !limits.TopicGeneration {
		return nil, apperrors.ErrTopicGenerationNotAllowed
	}

	return user, nil
}

func (s *UsageServiceImpl) Commit(ctx context.Context, userID string, produced int) error {
	if produced <= 0 {
		return nil
	}
	if err := s.users.IncrementCardsGenerated(ctx, userID, produced); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.Internal("failed to record card usage").WithError(err)
	}
	logger.CtxDebug(ctx, "usage committed", "user_id", userID, "cards", produced)
	return nil
}

func (s *UsageServiceImpl) RolloverIfDue(ctx context.Context, user *models.User) (bool, error) {
	now := s.now()
	if !periodElapsed(user.CardsResetDate, now) {
		return false, nil
	}

	if err := s.users.ResetMonthlyUsage(ctx, user.ID, now); err != nil {
		return false, apperrors.Internal("failed to roll over usage period").WithError(err)
	}
	user.CardsGeneratedThisMonth = 0
	user.CardsResetDate = now
	logger.CtxInfo(ctx, "usage period rolled over", "user_id", user.ID)
	return true, nil
}

func (s *UsageServiceImpl) loadWithRollover(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to load user").WithError(err)
	}
	if _, err := s.RolloverIfDue(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// periodElapsed reports whether now sits in a later calendar month than the
// anchor. Comparing month and year (rather than elapsed duration) makes the
// period boundary the first of the month in server time.
func periodElapsed(anchor, now time.Time) bool {
	return anchor.Month() != now.Month() || anchor.Year() != now.Year()
}

func buildUsageResponse(user *models.User) dto.UsageResponse {
	limits := entitlements.ForPlan(user.Plan)

	remaining := entitlements.Unlimited
	if !limits.HasUnlimitedCards() {
		remaining = limits.CardsPerMonth - user.CardsGeneratedThisMonth
		if remaining < 0 {
			remaining = 0
		}
	}

	return dto.UsageResponse{
		Plan:            user.Plan,
		CardsGenerated:  user.CardsGeneratedThisMonth,
		CardLimit:       limits.CardsPerMonth,
		Remaining:       remaining,
		ResetDate:       user.CardsResetDate,
		Formats:         limits.Formats,
		InputMethods:    limits.InputMethods,
		QuizLimit:       limits.QuizLimit,
		Analytics:       limits.Analytics,
		CSVExport:       limits.CSVExport,
		TopicGeneration: limits.TopicGeneration,
	}
}
