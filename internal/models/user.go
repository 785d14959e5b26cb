package models

import "time"

type User struct {
	BaseModel
	Name         string   `gorm:"not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Plan         PlanTier `gorm:"type:varchar(20);not null;default:'free'" json:"plan"`

	// Usage ledger: billable cards generated in the current monthly period
	// and the anchor date the period is computed from. The counter is only
	// ever reset by a detected rollover, and only ever grows otherwise.
	CardsGeneratedThisMonth int       `gorm:"not null;default:0" json:"cards_generated_this_month"`
	CardsResetDate          time.Time `gorm:"not null" json:"cards_reset_date"`

	// Billing references. CustomerID is set once, on the first checkout
	// attempt, and reused forever after. The subscription/price/period
	// fields are present only while a paid subscription exists.
	StripeCustomerID       *string    `gorm:"uniqueIndex" json:"-"`
	StripeSubscriptionID   *string    `json:"-"`
	StripePriceID          *string    `json:"-"`
	StripeCurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`

	OnboardingCompleted bool `gorm:"default:false" json:"onboarding_completed"`

	// Relations
	Sets          []FlashcardSet `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	StudySessions []StudySession `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index" json:"user_id"`
	Token     string    `gorm:"not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
