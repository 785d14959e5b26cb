package dto

import (
	"time"

	"github.com/izzat2702/KognitDeck/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID                  string          `json:"id"`
	Name                string          `json:"name"`
	Email               string          `json:"email"`
	Plan                models.PlanTier `json:"plan"`
	OnboardingCompleted bool            `json:"onboarding_completed"`
	CreatedAt           time.Time       `json:"created_at"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:                  user.ID,
		Name:                user.Name,
		Email:               user.Email,
		Plan:                user.Plan,
		OnboardingCompleted: user.OnboardingCompleted,
		CreatedAt:           user.CreatedAt,
	}
}
