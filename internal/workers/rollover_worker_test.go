package workers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func seedStaleUser(t *testing.T, users repositories.UserRepository, email string, anchor time.Time) *models.User {
	t.Helper()
	user := &models.User{
		Name: "Stale", Email: email, PasswordHash: "x",
		Plan: models.PlanFree, CardsGeneratedThisMonth: 42, CardsResetDate: anchor,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

// brokenUsage fails every rollover, standing in for a database that rejects
// the reset write.
type brokenUsage struct {
	calls int
}

func (u *brokenUsage) Snapshot(ctx context.Context, userID string) (*dto.UsageResponse, error) {
	return nil, errors.New("not implemented")
}

func (u *brokenUsage) Authorize(ctx context.Context, userID string, format models.CardFormat, method models.InputMethod, count int) (*models.User, error) {
	return nil, errors.New("not implemented")
}

func (u *brokenUsage) Commit(ctx context.Context, userID string, produced int) error {
	return errors.New("not implemented")
}

func (u *brokenUsage) RolloverIfDue(ctx context.Context, user *models.User) (bool, error) {
	u.calls++
	return false, errors.New("reset write rejected")
}

func TestSweep_ResetsStaleUsers(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewUserRepository(db)

	anchor := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	stale := seedStaleUser(t, users, "stale@example.com", anchor)

	fresh := &models.User{
		Name: "Fresh", Email: "fresh@example.com", PasswordHash: "x",
		Plan: models.PlanFree, CardsGeneratedThisMonth: 7, CardsResetDate: now,
	}
	require.NoError(t, users.Create(context.Background(), fresh))

	worker := NewRolloverWorker(users, services.NewUsageServiceWithClock(users, func() time.Time { return now }))
	worker.now = func() time.Time { return now }
	worker.sweep(context.Background())

	reloaded, err := users.FindByID(context.Background(), stale.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.CardsGeneratedThisMonth)

	untouched, err := users.FindByID(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, untouched.CardsGeneratedThisMonth)
}

func TestSweep_StopsWhenBatchMakesNoProgress(t *testing.T) {
	db := newTestDB(t)
	users := repositories.NewUserRepository(db)

	anchor := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	seedStaleUser(t, users, "one@example.com", anchor)
	seedStaleUser(t, users, "two@example.com", anchor)

	usage := &brokenUsage{}
	worker := NewRolloverWorker(users, usage)
	worker.now = func() time.Time { return now }
	// Both users fill one batch exactly, so a broken reset must not send
	// the sweep back to refetch the same rows forever.
	worker.batch = 2

	done := make(chan struct{})
	go func() {
		worker.sweep(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep did not terminate on a stuck batch")
	}
	assert.Equal(t, 2, usage.calls, "each stuck user is attempted once per sweep")
}
