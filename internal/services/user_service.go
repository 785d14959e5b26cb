package services

import (
	"context"
	"errors"

	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

type UserService interface {
	Profile(ctx context.Context, userID string) (*dto.UserResponse, error)
	CompleteOnboarding(ctx context.Context, userID string) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) UserService {
	return &UserServiceImpl{users: users}
}

func (s *UserServiceImpl) Profile(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to load user").WithError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

// CompleteOnboarding is idempotent: marking an already-onboarded user is a
// no-op that still returns the fresh profile.
func (s *UserServiceImpl) CompleteOnboarding(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if err := s.users.CompleteOnboarding(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to complete onboarding").WithError(err)
	}
	return s.Profile(ctx, userID)
}
