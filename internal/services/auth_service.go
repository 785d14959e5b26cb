package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/izzat2702/KognitDeck/internal/auth"
	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type AuthServiceImpl struct {
	users  repositories.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repositories.UserRepository, tokens *auth.TokenManager) AuthService {
	return &AuthServiceImpl{users: users, tokens: tokens}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Plan:         models.PlanFree,
		// New accounts start a fresh usage period at signup time.
		CardsResetDate: time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.Internal("failed to create user").WithError(err)
	}

	logger.CtxInfo(ctx, "user registered", "user_id", user.ID)
	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Internal("failed to look up user").WithError(err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	logger.CtxInfo(ctx, "user logged in", "user_id", user.ID)
	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token: the presented token is consumed even
// when it turns out to be expired.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	stored, err := s.users.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if err := s.users.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, apperrors.Internal("failed to rotate refresh token").WithError(err)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	err := s.users.DeleteRefreshToken(ctx, refreshToken)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return apperrors.Internal("failed to delete refresh token").WithError(err)
	}
	return nil
}

func (s *AuthServiceImpl) issueTokens(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.Generate(user.ID, user.Email, string(user.Plan))
	if err != nil {
		return nil, apperrors.Internal("failed to issue access token").WithError(err)
	}

	refreshToken, err := newRefreshToken()
	if err != nil {
		return nil, apperrors.Internal("failed to issue refresh token").WithError(err)
	}
	if err := s.users.CreateRefreshToken(ctx, &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, apperrors.Internal("failed to store refresh token").WithError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
