package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/izzat2702/KognitDeck/internal/models"
)

var ErrSetNotFound = errors.New("flashcard set not found")

type SetRepository interface {
	CreateWithCards(ctx context.Context, set *models.FlashcardSet) error
	FindByID(ctx context.Context, userID, setID string) (*models.FlashcardSet, error)
	FindAllByUser(ctx context.Context, userID string) ([]models.FlashcardSet, error)
	Rename(ctx context.Context, userID, setID, name string) error
	Delete(ctx context.Context, userID, setID string) error
}

type SetRepositoryImpl struct {
	db *gorm.DB
}

func NewSetRepository(db *gorm.DB) SetRepository {
	return &SetRepositoryImpl{db: db}
}

// CreateWithCards inserts the set and its cards in one transaction. A set
// never exists without its full card list.
func (r *SetRepositoryImpl) CreateWithCards(ctx context.Context, set *models.FlashcardSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(set).Error
	})
}

// FindByID scopes by owner: another user's set id behaves exactly like a
// missing one.
func (r *SetRepositoryImpl) FindByID(ctx context.Context, userID, setID string) (*models.FlashcardSet, error) {
	var set models.FlashcardSet
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&set, "id = ? AND user_id = ?", setID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSetNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (r *SetRepositoryImpl) FindAllByUser(ctx context.Context, userID string) ([]models.FlashcardSet, error) {
	var sets []models.FlashcardSet
	err := r.db.WithContext(ctx).
		Preload("Cards", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sets).Error
	return sets, err
}

func (r *SetRepositoryImpl) Rename(ctx context.Context, userID, setID, name string) error {
	result := r.db.WithContext(ctx).Model(&models.FlashcardSet{}).
		Where("id = ? AND user_id = ?", setID, userID).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSetNotFound
	}
	return nil
}

// Delete removes the set with its cards and study sessions. The explicit
// child deletes keep the cascade working on databases where the FK
// constraint was not applied.
func (r *SetRepositoryImpl) Delete(ctx context.Context, userID, setID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var set models.FlashcardSet
		if err := tx.First(&set, "id = ? AND user_id = ?", setID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSetNotFound
			}
			return err
		}

		if err := tx.Where("set_id = ?", setID).Delete(&models.Card{}).Error; err != nil {
			return err
		}
		if err := tx.Where("set_id = ?", setID).Delete(&models.StudySession{}).Error; err != nil {
			return err
		}
		return tx.Delete(&set).Error
	})
}
