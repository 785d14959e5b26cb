package dto

import (
	"time"

	"github.com/izzat2702/KognitDeck/internal/models"
)

// UsageResponse is the current-period ledger snapshot plus the entitlement
// row, so the client can render limits without a second round trip.
// Unlimited quotas are reported as -1.
type UsageResponse struct {
	Plan           models.PlanTier `json:"plan"`
	CardsGenerated int             `json:"cards_generated_this_month"`
	CardLimit      int             `json:"card_limit"`
	Remaining      int             `json:"remaining"`
	ResetDate      time.Time       `json:"reset_date"`

	Formats         []models.CardFormat  `json:"formats"`
	InputMethods    []models.InputMethod `json:"input_methods"`
	QuizLimit       int                  `json:"quiz_limit"`
	Analytics       bool                 `json:"analytics"`
	CSVExport       bool                 `json:"csv_export"`
	TopicGeneration bool                 `json:"topic_generation"`
}
