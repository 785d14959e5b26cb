package services

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/izzat2702/KognitDeck/internal/generator"
	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

type GenerationService interface {
	Generate(ctx context.Context, userID string, req dto.GenerateRequest) (*dto.GenerateResponse, error)
}

type GenerationServiceImpl struct {
	usage    UsageService
	sets     repositories.SetRepository
	cards    generator.CardGenerator
	maxCount int
}

func NewGenerationService(usage UsageService, sets repositories.SetRepository, cards generator.CardGenerator, maxCount int) GenerationService {
	return &GenerationServiceImpl{usage: usage, sets: sets, cards: cards, maxCount: maxCount}
}

// Generate runs the full pipeline: entitlement gate, card generation,
// atomic set persistence, then the usage commit. The commit uses the count
// the generator actually produced, not the requested count, and happens
// only after the cards exist: a failed generation must never consume quota.
func (s *GenerationServiceImpl) Generate(ctx context.Context, userID string, req dto.GenerateRequest) (*dto.GenerateResponse, error) {
	if req.Count > s.maxCount {
		return nil, apperrors.NewBadRequestError("card count exceeds the per-request maximum")
	}

	format := models.CardFormat(req.Format)
	method := models.InputMethod(req.InputMethod)

	user, err := s.usage.Authorize(ctx, userID, format, method, req.Count)
	if err != nil {
		return nil, err
	}

	generated, err := s.cards.Generate(ctx, generator.Request{
		SourceText: req.SourceText,
		Topic:      req.Topic,
		Format:     format,
		Count:      req.Count,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "generation", "Card generation failed", 502)
	}
	if len(generated) == 0 {
		return nil, apperrors.New(apperrors.CodeExternalServiceError, "generation", "Card generation produced no cards", 502)
	}

	set := &models.FlashcardSet{
		UserID:      user.ID,
		Name:        setName(req),
		InputMethod: method,
		Format:      format,
	}
	if req.Topic != "" {
		topic := req.Topic
		set.Subject = &topic
	}
	for i, card := range generated {
		model := models.Card{
			Front:         card.Front,
			Back:          card.Back,
			Format:        format,
			OrderIndex:    i,
			CorrectAnswer: nil,
		}
		if format == models.FormatMCQ {
			options, err := json.Marshal(card.Options)
			if err != nil {
				return nil, apperrors.Internal("failed to encode card options").WithError(err)
			}
			model.Options = datatypes.JSON(options)
			answer := card.CorrectAnswer
			model.CorrectAnswer = &answer
		}
		set.Cards = append(set.Cards, model)
	}

	if err := s.sets.CreateWithCards(ctx, set); err != nil {
		return nil, apperrors.Internal("failed to save flashcard set").WithError(err)
	}

	if err := s.usage.Commit(ctx, user.ID, len(generated)); err != nil {
		// The set exists; losing the usage write means the user got free
		// cards, which beats charging for cards they never received.
		logger.CtxError(ctx, "usage commit failed after generation", "user_id", user.ID, "set_id", set.ID, "error", err)
	}

	snapshot, err := s.usage.Snapshot(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "flashcard set generated",
		"user_id", user.ID, "set_id", set.ID, "cards", len(generated), "format", format)

	return &dto.GenerateResponse{
		Set:   dto.NewSetResponse(set, true),
		Usage: *snapshot,
	}, nil
}

func setName(req dto.GenerateRequest) string {
	if req.Name != "" {
		return req.Name
	}
	if req.Topic != "" {
		return "Cards: " + req.Topic
	}
	return "New Flashcard Set"
}
