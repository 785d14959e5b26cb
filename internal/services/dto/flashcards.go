package dto

import (
	"encoding/json"
	"time"

	"github.com/izzat2702/KognitDeck/internal/models"
)

type GenerateRequest struct {
	// Name is optional; the service derives one from the topic when absent.
	Name        string `json:"name" validate:"omitempty,max=120"`
	InputMethod string `json:"input_method" validate:"required,inputmethod"`
	Format      string `json:"format" validate:"required,cardformat"`
	SourceText  string `json:"source_text" validate:"required_unless=InputMethod topic,omitempty,min=20"`
	Topic       string `json:"topic" validate:"required_if=InputMethod topic,omitempty,min=2,max=200"`
	Count       int    `json:"count" validate:"required,min=1"`
}

type RenameSetRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

type CardResponse struct {
	ID            string            `json:"id"`
	Front         string            `json:"front"`
	Back          string            `json:"back"`
	Format        models.CardFormat `json:"format"`
	Order         int               `json:"order"`
	Options       []string          `json:"options,omitempty"`
	CorrectAnswer *string           `json:"correct_answer,omitempty"`
}

type SetResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	InputMethod models.InputMethod `json:"input_method"`
	Format      models.CardFormat  `json:"format"`
	Subject     *string            `json:"subject,omitempty"`
	CardCount   int                `json:"card_count"`
	Cards       []CardResponse     `json:"cards,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// GenerateResponse pairs the created set with the post-commit ledger
// snapshot so the client can refresh its quota display in one round trip.
type GenerateResponse struct {
	Set   SetResponse   `json:"set"`
	Usage UsageResponse `json:"usage"`
}

func NewCardResponse(card *models.Card) CardResponse {
	resp := CardResponse{
		ID:            card.ID,
		Front:         card.Front,
		Back:          card.Back,
		Format:        card.Format,
		Order:         card.OrderIndex,
		CorrectAnswer: card.CorrectAnswer,
	}
	if len(card.Options) > 0 {
		// Options is stored as a JSON array; decode failures leave the
		// field empty rather than failing the whole response.
		_ = json.Unmarshal(card.Options, &resp.Options)
	}
	return resp
}

func NewSetResponse(set *models.FlashcardSet, includeCards bool) SetResponse {
	resp := SetResponse{
		ID:          set.ID,
		Name:        set.Name,
		InputMethod: set.InputMethod,
		Format:      set.Format,
		Subject:     set.Subject,
		CardCount:   len(set.Cards),
		CreatedAt:   set.CreatedAt,
	}
	if includeCards {
		resp.Cards = make([]CardResponse, 0, len(set.Cards))
		for i := range set.Cards {
			resp.Cards = append(resp.Cards, NewCardResponse(&set.Cards[i]))
		}
	}
	return resp
}

type ExtractResponse struct {
	Text      string `json:"text"`
	PageCount int    `json:"page_count"`
	WordCount int    `json:"word_count"`
}
