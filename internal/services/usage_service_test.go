package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/izzat2702/KognitDeck/internal/entitlements"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newUsageFixture(t *testing.T, plan models.PlanTier, used int, anchor, now time.Time) (UsageService, repositories.UserRepository, *models.User) {
	t.Helper()
	users := repositories.NewUserRepository(newTestDB(t))

	user := &models.User{
		Name:                    "Quota User",
		Email:                   string(plan) + "@example.com",
		PasswordHash:            "x",
		Plan:                    plan,
		CardsGeneratedThisMonth: used,
		CardsResetDate:          anchor,
	}
	require.NoError(t, users.Create(context.Background(), user))

	return NewUsageServiceWithClock(users, fixedClock(now)), users, user
}

func TestUsage_AuthorizeWithinQuota(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	svc, _, user := newUsageFixture(t, models.PlanFree, 48, anchor, now)

	_, err := svc.Authorize(context.Background(), user.ID, models.FormatQA, models.InputText, 2)
	assert.NoError(t, err)
}

func TestUsage_AuthorizeQuotaExceededReportsRemaining(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	svc, _, user := newUsageFixture(t, models.PlanFree, 48, anchor, now)

	_, err := svc.Authorize(context.Background(), user.ID, models.FormatQA, models.InputText, 5)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeQuotaExceeded, appErr.Code)

	details, ok := appErr.Details.(apperrors.QuotaExceededDetails)
	require.True(t, ok)
	assert.Equal(t, 2, details.Remaining)
	assert.Equal(t, 50, details.Limit)
}

func TestUsage_RemainingNeverNegative(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	// Counter over the limit, as after a downgrade from a paid tier.
	svc, _, user := newUsageFixture(t, models.PlanFree, 200, anchor, now)

	_, err := svc.Authorize(context.Background(), user.ID, models.FormatQA, models.InputText, 1)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	details := appErr.Details.(apperrors.QuotaExceededDetails)
	assert.Equal(t, 0, details.Remaining)

	snap, err := svc.Snapshot(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.Remaining)
}

func TestUsage_RolloverResetsQuota(t *testing.T) {
	now := time.Date(2026, 9, 1, 0, 30, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	svc, users, user := newUsageFixture(t, models.PlanFree, 50, anchor, now)

	// Anchor is in a previous month: the gate must reset before checking.
	_, err := svc.Authorize(context.Background(), user.ID, models.FormatQA, models.InputText, 50)
	assert.NoError(t, err)

	// The reset was persisted, not just applied in memory.
	fresh, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.CardsGeneratedThisMonth)
	assert.Equal(t, now.Month(), fresh.CardsResetDate.Month())
}

func TestUsage_RolloverIsIdempotentWithinPeriod(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC)
	svc, users, user := newUsageFixture(t, models.PlanFree, 10, anchor, now)

	snap, err := svc.Snapshot(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, snap.CardsGenerated, "same-month snapshot must not reset")

	fresh, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.WithinDuration(t, anchor, fresh.CardsResetDate, time.Second)
}

func TestUsage_YearBoundaryRollsOver(t *testing.T) {
	// Same calendar month, different year.
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2025, 8, 20, 12, 0, 0, 0, time.UTC)
	svc, _, user := newUsageFixture(t, models.PlanFree, 50, anchor, now)

	snap, err := svc.Snapshot(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.CardsGenerated)
}

func TestUsage_FormatGate(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	svc, _, user := newUsageFixture(t, models.PlanFree, 0, anchor, now)

	_, err := svc.Authorize(context.Background(), user.ID, models.FormatMCQ, models.InputText, 5)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeFormatNotAllowed, appErr.Code)
}

func TestUsage_TopicGate(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	svc, _, user := newUsageFixture(t, models.PlanPro, 0, anchor, now)

	_, err := svc.Authorize(context.Background(), user.ID, models.FormatQA, models.InputTopic, 5)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeTopicGenerationNotAllowed, appErr.Code)
}

func TestUsage_PremiumBypassesQuota(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	svc, _, user := newUsageFixture(t, models.PlanPremium, 100000, anchor, now)

	_, err := svc.Authorize(context.Background(), user.ID, models.FormatMCQ, models.InputTopic, 500)
	assert.NoError(t, err)

	snap, err := svc.Snapshot(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, entitlements.Unlimited, snap.Remaining)
}

func TestUsage_AuthorizeUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewUsageService(repositories.NewUserRepository(db))

	_, err := svc.Authorize(context.Background(), "missing", models.FormatQA, models.InputText, 1)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
}

func TestUsage_CommitAccumulates(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	svc, _, user := newUsageFixture(t, models.PlanFree, 0, anchor, now)

	require.NoError(t, svc.Commit(context.Background(), user.ID, 5))
	require.NoError(t, svc.Commit(context.Background(), user.ID, 3))
	require.NoError(t, svc.Commit(context.Background(), user.ID, 0), "zero commits are a no-op")

	snap, err := svc.Snapshot(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, snap.CardsGenerated)
	assert.Equal(t, 42, snap.Remaining)
}
