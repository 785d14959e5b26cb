package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/izzat2702/KognitDeck/internal/entitlements"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

const recentAccuracyWindow = 14

type AnalyticsService interface {
	Overview(ctx context.Context, userID string) (*dto.AnalyticsResponse, error)
}

type AnalyticsServiceImpl struct {
	users    repositories.UserRepository
	sessions repositories.StudyRepository
	sets     repositories.SetRepository
	now      func() time.Time
}

func NewAnalyticsService(users repositories.UserRepository, sessions repositories.StudyRepository, sets repositories.SetRepository) AnalyticsService {
	return &AnalyticsServiceImpl{users: users, sessions: sessions, sets: sets, now: time.Now}
}

func NewAnalyticsServiceWithClock(users repositories.UserRepository, sessions repositories.StudyRepository, sets repositories.SetRepository, now func() time.Time) AnalyticsService {
	return &AnalyticsServiceImpl{users: users, sessions: sessions, sets: sets, now: now}
}

// Overview aggregates the user's full study history. Aggregation happens in
// memory over one query; study histories are small (hundreds of rows, not
// millions) and the shapes needed here (streaks, dense day buckets) are
// awkward to push into SQL portably.
func (s *AnalyticsServiceImpl) Overview(ctx context.Context, userID string) (*dto.AnalyticsResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to load user").WithError(err)
	}
	if !entitlements.ForPlan(user.Plan).Analytics {
		return nil, apperrors.ErrAnalyticsNotAllowed
	}

	sessions, err := s.sessions.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load study sessions").WithError(err)
	}
	sets, err := s.sets.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to load sets").WithError(err)
	}

	now := s.now()
	resp := &dto.AnalyticsResponse{
		TotalSessions:  len(sessions),
		SetCount:       int64(len(sets)),
		RecentAccuracy: recentAccuracy(sessions),
		DailyActivity:  dailyActivity(sessions, now),
		TopSets:        topSets(sessions, sets),
		StreakDays:     streakDays(sessions, now),
	}

	var correct, total int
	for i := range sessions {
		correct += sessions[i].CorrectCards
		total += sessions[i].TotalCards
		resp.TotalCardsStudied += sessions[i].TotalCards
		resp.TotalStudyTime += sessions[i].Duration
	}
	resp.OverallAccuracy = dto.Accuracy(correct, total)

	return resp, nil
}

// recentAccuracy returns the last sessions (newest first from the
// repository) as an oldest-first series, capped at the window size.
func recentAccuracy(sessions []models.StudySession) []dto.AccuracyPoint {
	n := len(sessions)
	if n > recentAccuracyWindow {
		n = recentAccuracyWindow
	}
	points := make([]dto.AccuracyPoint, 0, n)
	for i := n - 1; i >= 0; i-- {
		points = append(points, dto.AccuracyPoint{
			Date:     sessions[i].CreatedAt.Format("2006-01-02"),
			Accuracy: dto.Accuracy(sessions[i].CorrectCards, sessions[i].TotalCards),
		})
	}
	return points
}

// dailyActivity produces one bucket per day of the current month up to
// today, zero-filled for days without sessions.
func dailyActivity(sessions []models.StudySession, now time.Time) []dto.DayBucket {
	byDay := make(map[string]*dto.DayBucket)
	for i := range sessions {
		day := sessions[i].CreatedAt.Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &dto.DayBucket{Date: day}
			byDay[day] = bucket
		}
		bucket.Sessions++
		bucket.Cards += sessions[i].TotalCards
	}

	buckets := make([]dto.DayBucket, 0, now.Day())
	for day := 1; day <= now.Day(); day++ {
		date := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
		if bucket, ok := byDay[date]; ok {
			buckets = append(buckets, *bucket)
		} else {
			buckets = append(buckets, dto.DayBucket{Date: date})
		}
	}
	return buckets
}

// streakDays counts consecutive days with at least one session, walking
// backward from today and stopping at the first gap. The run must include
// today: a quiet today means the streak is 0.
func streakDays(sessions []models.StudySession, now time.Time) int {
	days := make(map[string]bool, len(sessions))
	for i := range sessions {
		days[sessions[i].CreatedAt.Format("2006-01-02")] = true
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// topSets ranks every set by session count, ties broken by accuracy, capped
// at five entries. Sets without sessions still rank; they carry zero counts.
func topSets(sessions []models.StudySession, sets []models.FlashcardSet) []dto.TopSet {
	type agg struct {
		sessions int
		correct  int
		total    int
	}
	bySet := make(map[string]*agg, len(sets))
	for i := range sessions {
		session := &sessions[i]
		a, ok := bySet[session.SetID]
		if !ok {
			a = &agg{}
			bySet[session.SetID] = a
		}
		a.sessions++
		a.correct += session.CorrectCards
		a.total += session.TotalCards
	}

	top := make([]dto.TopSet, 0, len(sets))
	for i := range sets {
		set := &sets[i]
		entry := dto.TopSet{
			SetID:     set.ID,
			Name:      set.Name,
			CardCount: len(set.Cards),
		}
		if a, ok := bySet[set.ID]; ok {
			entry.Sessions = a.sessions
			entry.Accuracy = dto.Accuracy(a.correct, a.total)
		}
		top = append(top, entry)
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Sessions != top[j].Sessions {
			return top[i].Sessions > top[j].Sessions
		}
		return top[i].Accuracy > top[j].Accuracy
	})
	if len(top) > 5 {
		top = top[:5]
	}
	return top
}
