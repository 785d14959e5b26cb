package dto

type AnalyticsResponse struct {
	TotalSessions     int    `json:"total_sessions"`
	TotalCardsStudied int    `json:"total_cards_studied"`
	TotalStudyTime    int    `json:"total_study_time"` // seconds
	OverallAccuracy   int    `json:"overall_accuracy"`
	StreakDays        int    `json:"streak_days"`
	SetCount          int64  `json:"set_count"`

	RecentAccuracy []AccuracyPoint `json:"recent_accuracy"`
	DailyActivity  []DayBucket     `json:"daily_activity"`
	TopSets        []TopSet        `json:"top_sets"`
}

// AccuracyPoint is one completed session in the recency window.
type AccuracyPoint struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Accuracy int    `json:"accuracy"`
}

// DayBucket is one calendar day of the current month. The series is dense:
// days without activity appear with zero counts.
type DayBucket struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Sessions int    `json:"sessions"`
	Cards    int    `json:"cards"`
}

type TopSet struct {
	SetID     string `json:"set_id"`
	Name      string `json:"name"`
	Sessions  int    `json:"sessions"`
	CardCount int    `json:"card_count"`
	Accuracy  int    `json:"accuracy"`
}
