package repositories

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/izzat2702/KognitDeck/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.Join(t.TempDir(), "test.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.FlashcardSet{},
		&models.Card{},
		&models.StudySession{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Name:           "Test User",
		Email:          email,
		PasswordHash:   "x",
		Plan:           models.PlanFree,
		CardsResetDate: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{
		Name:           "Ada",
		Email:          "ada@example.com",
		PasswordHash:   "hash",
		Plan:           models.PlanFree,
		CardsResetDate: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	err = repo.Create(ctx, &models.User{Name: "Dup", Email: "ada@example.com", PasswordHash: "h", CardsResetDate: time.Now()})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_IncrementIsAtomicUnderConcurrency(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "race@example.com")

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	errs := make(chan error, workers*perWorker)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				errs <- repo.IncrementCardsGenerated(ctx, user.ID, 1)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, found.CardsGeneratedThisMonth)
}

func TestUserRepository_ResetMonthlyUsage(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "reset@example.com")

	require.NoError(t, repo.IncrementCardsGenerated(ctx, user.ID, 42))

	anchor := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.ResetMonthlyUsage(ctx, user.ID, anchor))

	found, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.CardsGeneratedThisMonth)
	assert.WithinDuration(t, anchor, found.CardsResetDate, time.Second)
}

func TestUserRepository_SubscriptionLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	user := seedUser(t, db, "billing@example.com")

	require.NoError(t, repo.SetStripeCustomerID(ctx, user.ID, "cus_123"))

	subID := "sub_123"
	priceID := "price_pro_monthly"
	periodEnd := time.Now().AddDate(0, 1, 0)
	require.NoError(t, repo.UpdateSubscription(ctx, user.ID, SubscriptionUpdate{
		Plan:             models.PlanPro,
		SubscriptionID:   &subID,
		PriceID:          &priceID,
		CurrentPeriodEnd: &periodEnd,
	}))

	found, err := repo.FindByStripeCustomerID(ctx, "cus_123")
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, found.Plan)
	require.NotNil(t, found.StripeSubscriptionID)
	assert.Equal(t, "sub_123", *found.StripeSubscriptionID)

	require.NoError(t, repo.ClearSubscription(ctx, user.ID))
	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlanFree, found.Plan)
	assert.Nil(t, found.StripeSubscriptionID)
	assert.Nil(t, found.StripePriceID)
	require.NotNil(t, found.StripeCustomerID)
	assert.Equal(t, "cus_123", *found.StripeCustomerID)
}

func TestSetRepository_OwnershipScoping(t *testing.T) {
	db := newTestDB(t)
	repo := NewSetRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")

	set := &models.FlashcardSet{
		UserID:      owner.ID,
		Name:        "Biology",
		InputMethod: models.InputText,
		Format:      models.FormatQA,
		Cards: []models.Card{
			{Front: "Q2", Back: "A2", Format: models.FormatQA, OrderIndex: 1},
			{Front: "Q1", Back: "A1", Format: models.FormatQA, OrderIndex: 0},
		},
	}
	require.NoError(t, repo.CreateWithCards(ctx, set))

	found, err := repo.FindByID(ctx, owner.ID, set.ID)
	require.NoError(t, err)
	require.Len(t, found.Cards, 2)
	assert.Equal(t, "Q1", found.Cards[0].Front, "cards come back in order_index order")

	_, err = repo.FindByID(ctx, other.ID, set.ID)
	assert.ErrorIs(t, err, ErrSetNotFound)

	err = repo.Rename(ctx, other.ID, set.ID, "stolen")
	assert.ErrorIs(t, err, ErrSetNotFound)

	require.NoError(t, repo.Rename(ctx, owner.ID, set.ID, "Biology 101"))
}

func TestSetRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	setRepo := NewSetRepository(db)
	studyRepo := NewStudyRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "cascade@example.com")

	set := &models.FlashcardSet{
		UserID:      owner.ID,
		Name:        "To delete",
		InputMethod: models.InputText,
		Format:      models.FormatQA,
		Cards:       []models.Card{{Front: "Q", Back: "A", Format: models.FormatQA}},
	}
	require.NoError(t, setRepo.CreateWithCards(ctx, set))
	require.NoError(t, studyRepo.Create(ctx, &models.StudySession{
		UserID: owner.ID, SetID: set.ID, TotalCards: 1, CorrectCards: 1, Duration: 30, Completed: true,
	}))

	require.NoError(t, setRepo.Delete(ctx, owner.ID, set.ID))

	var cards int64
	require.NoError(t, db.Model(&models.Card{}).Where("set_id = ?", set.ID).Count(&cards).Error)
	assert.Zero(t, cards)

	var sessions int64
	require.NoError(t, db.Model(&models.StudySession{}).Where("set_id = ?", set.ID).Count(&sessions).Error)
	assert.Zero(t, sessions)
}

func TestStudyRepository_Queries(t *testing.T) {
	db := newTestDB(t)
	setRepo := NewSetRepository(db)
	studyRepo := NewStudyRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "study@example.com")

	set := &models.FlashcardSet{
		UserID: owner.ID, Name: "Chem", InputMethod: models.InputText, Format: models.FormatQA,
		Cards: []models.Card{{Front: "Q", Back: "A", Format: models.FormatQA}},
	}
	require.NoError(t, setRepo.CreateWithCards(ctx, set))

	for i := 0; i < 3; i++ {
		require.NoError(t, studyRepo.Create(ctx, &models.StudySession{
			UserID: owner.ID, SetID: set.ID,
			TotalCards: 10, CorrectCards: 7 + i, Duration: 60, Completed: true,
		}))
	}

	all, err := studyRepo.FindAllByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.NotNil(t, all[0].Set)
	assert.Equal(t, "Chem", all[0].Set.Name)

	recent, err := studyRepo.FindRecentByUser(ctx, owner.ID, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	_, err = studyRepo.FindByID(ctx, owner.ID, "missing")
	assert.ErrorIs(t, err, ErrStudySessionNotFound)
}
