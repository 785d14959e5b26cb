package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"

	"github.com/izzat2702/KognitDeck/internal/entitlements"
	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

type SetService interface {
	List(ctx context.Context, userID string) ([]dto.SetResponse, error)
	Get(ctx context.Context, userID, setID string) (*dto.SetResponse, error)
	Rename(ctx context.Context, userID, setID, name string) (*dto.SetResponse, error)
	Delete(ctx context.Context, userID, setID string) error

	// ExportCSV renders the set's cards as CSV. Premium-only; the filename
	// is derived from the set name.
	ExportCSV(ctx context.Context, userID, setID string) (filename string, data []byte, err error)
}

type SetServiceImpl struct {
	sets  repositories.SetRepository
	users repositories.UserRepository
}

func NewSetService(sets repositories.SetRepository, users repositories.UserRepository) SetService {
	return &SetServiceImpl{sets: sets, users: users}
}

func (s *SetServiceImpl) List(ctx context.Context, userID string) ([]dto.SetResponse, error) {
	sets, err := s.sets.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list flashcard sets").WithError(err)
	}

	resp := make([]dto.SetResponse, 0, len(sets))
	for i := range sets {
		resp = append(resp, dto.NewSetResponse(&sets[i], false))
	}
	return resp, nil
}

func (s *SetServiceImpl) Get(ctx context.Context, userID, setID string) (*dto.SetResponse, error) {
	set, err := s.findSet(ctx, userID, setID)
	if err != nil {
		return nil, err
	}
	resp := dto.NewSetResponse(set, true)
	return &resp, nil
}

func (s *SetServiceImpl) Rename(ctx context.Context, userID, setID, name string) (*dto.SetResponse, error) {
	if err := s.sets.Rename(ctx, userID, setID, name); err != nil {
		if errors.Is(err, repositories.ErrSetNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to rename set").WithError(err)
	}
	return s.Get(ctx, userID, setID)
}

func (s *SetServiceImpl) Delete(ctx context.Context, userID, setID string) error {
	if err := s.sets.Delete(ctx, userID, setID); err != nil {
		if errors.Is(err, repositories.ErrSetNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.Internal("failed to delete set").WithError(err)
	}
	logger.CtxInfo(ctx, "flashcard set deleted", "user_id", userID, "set_id", setID)
	return nil
}

func (s *SetServiceImpl) ExportCSV(ctx context.Context, userID, setID string) (string, []byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", nil, apperrors.ErrNotFound(err)
		}
		return "", nil, apperrors.Internal("failed to load user").WithError(err)
	}
	if !entitlements.ForPlan(user.Plan).CSVExport {
		return "", nil, apperrors.ErrExportNotAllowed
	}

	set, err := s.findSet(ctx, userID, setID)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"order", "front", "back", "format", "options", "correct_answer"})
	for i := range set.Cards {
		card := &set.Cards[i]
		answer := ""
		if card.CorrectAnswer != nil {
			answer = *card.CorrectAnswer
		}
		_ = w.Write([]string{
			strconv.Itoa(card.OrderIndex),
			card.Front,
			card.Back,
			string(card.Format),
			string(card.Options),
			answer,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, apperrors.Internal("failed to encode CSV").WithError(err)
	}

	return csvFilename(set.Name), buf.Bytes(), nil
}

func (s *SetServiceImpl) findSet(ctx context.Context, userID, setID string) (*models.FlashcardSet, error) {
	set, err := s.sets.FindByID(ctx, userID, setID)
	if err != nil {
		if errors.Is(err, repositories.ErrSetNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to load set").WithError(err)
	}
	return set, nil
}

// csvFilename lowercases the set name and collapses anything outside
// [a-z0-9] into single dashes.
func csvFilename(name string) string {
	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	base := strings.TrimSuffix(sb.String(), "-")
	if base == "" {
		base = "flashcards"
	}
	return base + ".csv"
}
