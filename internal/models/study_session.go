package models

// StudySession is the immutable record of one completed study pass over a
// set. Incomplete runs are never persisted, so Completed is always true for
// stored rows; the column exists so abandoned-run support could be added
// without a migration.
type StudySession struct {
	BaseModel
	UserID       string `gorm:"not null;index" json:"user_id"`
	SetID        string `gorm:"not null;index" json:"set_id"`
	TotalCards   int    `gorm:"not null" json:"total_cards"`
	CorrectCards int    `gorm:"not null" json:"correct_cards"`
	EasyCards    int    `gorm:"not null" json:"easy_cards"`
	HardCards    int    `gorm:"not null" json:"hard_cards"`
	Duration     int    `gorm:"not null" json:"duration"` // seconds
	Completed    bool   `gorm:"not null;default:true" json:"completed"`

	// Relations
	Set *FlashcardSet `gorm:"foreignKey:SetID" json:"set,omitempty"`
}
