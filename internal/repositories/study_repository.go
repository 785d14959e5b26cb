package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/izzat2702/KognitDeck/internal/models"
)

var ErrStudySessionNotFound = errors.New("study session not found")

type StudyRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	FindByID(ctx context.Context, userID, sessionID string) (*models.StudySession, error)
	FindAllByUser(ctx context.Context, userID string) ([]models.StudySession, error)
	FindBySet(ctx context.Context, userID, setID string) ([]models.StudySession, error)
	FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.StudySession, error)
}

type StudyRepositoryImpl struct {
	db *gorm.DB
}

func NewStudyRepository(db *gorm.DB) StudyRepository {
	return &StudyRepositoryImpl{db: db}
}

func (r *StudyRepositoryImpl) Create(ctx context.Context, session *models.StudySession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *StudyRepositoryImpl) FindByID(ctx context.Context, userID, sessionID string) (*models.StudySession, error) {
	var session models.StudySession
	err := r.db.WithContext(ctx).Preload("Set").
		First(&session, "id = ? AND user_id = ?", sessionID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudySessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *StudyRepositoryImpl) FindAllByUser(ctx context.Context, userID string) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.db.WithContext(ctx).Preload("Set").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *StudyRepositoryImpl) FindBySet(ctx context.Context, userID, setID string) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND set_id = ?", userID, setID).
		Order("created_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *StudyRepositoryImpl) FindRecentByUser(ctx context.Context, userID string, limit int) ([]models.StudySession, error) {
	var sessions []models.StudySession
	err := r.db.WithContext(ctx).Preload("Set").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
