package services

import (
	"context"
	"errors"

	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

const studyListLimit = 50

type StudyService interface {
	Record(ctx context.Context, userID string, req dto.CreateStudySessionRequest) (*dto.StudySessionResponse, error)
	List(ctx context.Context, userID string) ([]dto.StudySessionResponse, error)
	ListBySet(ctx context.Context, userID, setID string) ([]dto.StudySessionResponse, error)
}

type StudyServiceImpl struct {
	sessions repositories.StudyRepository
	sets     repositories.SetRepository
}

func NewStudyService(sessions repositories.StudyRepository, sets repositories.SetRepository) StudyService {
	return &StudyServiceImpl{sessions: sessions, sets: sets}
}

// Record persists one completed study run. The session is validated against
// the set it claims to cover: the set must exist, belong to the caller, and
// the correct count cannot exceed the total.
func (s *StudyServiceImpl) Record(ctx context.Context, userID string, req dto.CreateStudySessionRequest) (*dto.StudySessionResponse, error) {
	if req.CorrectCards > req.TotalCards {
		return nil, apperrors.NewBadRequestError("correct_cards cannot exceed total_cards")
	}
	if req.EasyCards+req.HardCards > req.TotalCards {
		return nil, apperrors.NewBadRequestError("easy_cards plus hard_cards cannot exceed total_cards")
	}

	set, err := s.sets.FindByID(ctx, userID, req.SetID)
	if err != nil {
		if errors.Is(err, repositories.ErrSetNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to load set").WithError(err)
	}

	session := &models.StudySession{
		UserID:       userID,
		SetID:        set.ID,
		TotalCards:   req.TotalCards,
		CorrectCards: req.CorrectCards,
		EasyCards:    req.EasyCards,
		HardCards:    req.HardCards,
		Duration:     req.Duration,
		Completed:    true,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, apperrors.Internal("failed to save study session").WithError(err)
	}
	session.Set = set

	logger.CtxInfo(ctx, "study session recorded",
		"user_id", userID, "set_id", set.ID, "accuracy", dto.Accuracy(req.CorrectCards, req.TotalCards))

	resp := dto.NewStudySessionResponse(session)
	return &resp, nil
}

// List returns the user's most recent sessions, newest first.
func (s *StudyServiceImpl) List(ctx context.Context, userID string) ([]dto.StudySessionResponse, error) {
	sessions, err := s.sessions.FindRecentByUser(ctx, userID, studyListLimit)
	if err != nil {
		return nil, apperrors.Internal("failed to list study sessions").WithError(err)
	}
	return toSessionResponses(sessions), nil
}

func (s *StudyServiceImpl) ListBySet(ctx context.Context, userID, setID string) ([]dto.StudySessionResponse, error) {
	if _, err := s.sets.FindByID(ctx, userID, setID); err != nil {
		if errors.Is(err, repositories.ErrSetNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to load set").WithError(err)
	}

	sessions, err := s.sessions.FindBySet(ctx, userID, setID)
	if err != nil {
		return nil, apperrors.Internal("failed to list study sessions").WithError(err)
	}
	return toSessionResponses(sessions), nil
}

func toSessionResponses(sessions []models.StudySession) []dto.StudySessionResponse {
	resp := make([]dto.StudySessionResponse, 0, len(sessions))
	for i := range sessions {
		resp = append(resp, dto.NewStudySessionResponse(&sessions[i]))
	}
	return resp
}
