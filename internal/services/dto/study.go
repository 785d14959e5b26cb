package dto

import (
	"time"

	"github.com/izzat2702/KognitDeck/internal/models"
)

type CreateStudySessionRequest struct {
	SetID        string `json:"set_id" validate:"required"`
	TotalCards   int    `json:"total_cards" validate:"required,min=1"`
	CorrectCards int    `json:"correct_cards" validate:"min=0"`
	EasyCards    int    `json:"easy_cards" validate:"min=0"`
	HardCards    int    `json:"hard_cards" validate:"min=0"`
	Duration     int    `json:"duration" validate:"min=0"`
}

type StudySessionResponse struct {
	ID           string    `json:"id"`
	SetID        string    `json:"set_id"`
	SetName      string    `json:"set_name,omitempty"`
	TotalCards   int       `json:"total_cards"`
	CorrectCards int       `json:"correct_cards"`
	EasyCards    int       `json:"easy_cards"`
	HardCards    int       `json:"hard_cards"`
	Duration     int       `json:"duration"`
	Accuracy     int       `json:"accuracy"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewStudySessionResponse(session *models.StudySession) StudySessionResponse {
	resp := StudySessionResponse{
		ID:           session.ID,
		SetID:        session.SetID,
		TotalCards:   session.TotalCards,
		CorrectCards: session.CorrectCards,
		EasyCards:    session.EasyCards,
		HardCards:    session.HardCards,
		Duration:     session.Duration,
		Accuracy:     Accuracy(session.CorrectCards, session.TotalCards),
		CreatedAt:    session.CreatedAt,
	}
	if session.Set != nil {
		resp.SetName = session.Set.Name
	}
	return resp
}

// Accuracy is the rounded percentage of correct answers; zero when nothing
// was answered.
func Accuracy(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(correct)/float64(total)*100 + 0.5)
}
