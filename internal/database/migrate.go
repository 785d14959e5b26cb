package database

import (
	"gorm.io/gorm"

	"github.com/izzat2702/KognitDeck/internal/models"
)

// AutoMigrate creates or updates the schema for every model. Parents come
// before children so the foreign keys resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.FlashcardSet{},
		&models.Card{},
		&models.StudySession{},
	)
}
