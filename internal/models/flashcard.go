package models

import (
	"gorm.io/datatypes"
)

// FlashcardSet is a named collection of generated cards owned by one user.
// It is created atomically with its full card list and mutated only by
// rename; deletion cascades to cards and study sessions.
type FlashcardSet struct {
	BaseModel
	UserID      string      `gorm:"not null;index" json:"user_id"`
	Name        string      `gorm:"not null" json:"name"`
	InputMethod InputMethod `gorm:"type:varchar(10);not null" json:"input_method"`
	Format      CardFormat  `gorm:"type:varchar(10);not null" json:"format"`
	Subject     *string     `json:"subject,omitempty"`

	// Relations
	Cards         []Card         `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE" json:"cards,omitempty"`
	StudySessions []StudySession `gorm:"foreignKey:SetID;constraint:OnDelete:CASCADE" json:"-"`
}

// Card is one question/answer unit with a stable zero-based position in its
// set. Options and CorrectAnswer are present exactly when Format is mcq, and
// CorrectAnswer must be a member of Options.
type Card struct {
	BaseModel
	SetID         string         `gorm:"not null;index" json:"set_id"`
	Front         string         `gorm:"not null" json:"front"`
	Back          string         `gorm:"not null" json:"back"`
	Format        CardFormat     `gorm:"type:varchar(10);not null" json:"format"`
	OrderIndex    int            `gorm:"not null" json:"order"`
	Options       datatypes.JSON `json:"options,omitempty"`
	CorrectAnswer *string        `json:"correct_answer,omitempty"`
}
