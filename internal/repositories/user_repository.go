package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/izzat2702/KognitDeck/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	// User operations
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	CompleteOnboarding(ctx context.Context, userID string) error

	// Usage ledger operations
	ResetMonthlyUsage(ctx context.Context, userID string, anchor time.Time) error
	IncrementCardsGenerated(ctx context.Context, userID string, delta int) error
	FindDueForRollover(ctx context.Context, before time.Time, limit int) ([]models.User, error)

	// Billing operations
	SetStripeCustomerID(ctx context.Context, userID, customerID string) error
	UpdateSubscription(ctx context.Context, userID string, sub SubscriptionUpdate) error
	ClearSubscription(ctx context.Context, userID string) error

	// RefreshToken operations
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error
	CleanExpiredRefreshTokens(ctx context.Context) error
}

// SubscriptionUpdate carries the billing fields written as one unit when a
// subscription event lands.
type SubscriptionUpdate struct {
	Plan             models.PlanTier
	SubscriptionID   *string
	PriceID          *string
	CurrentPeriodEnd *time.Time
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

// User operations

func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "stripe_customer_id = ?", customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(ctx context.Context, user *models.User) error {
	var existing models.User
	if err := r.db.WithContext(ctx).Where("email = ?", user.Email).First(&existing).Error; err == nil {
		return ErrUserAlreadyExists
	}

	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepositoryImpl) CompleteOnboarding(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"onboarding_completed": true,
		"updated_at":           time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Usage ledger operations

// ResetMonthlyUsage zeroes the counter and moves the anchor. Written as one
// statement so a rollover is atomic with respect to concurrent commits.
func (r *UserRepositoryImpl) ResetMonthlyUsage(ctx context.Context, userID string, anchor time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"cards_generated_this_month": 0,
		"cards_reset_date":           anchor,
		"updated_at":                 time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// IncrementCardsGenerated adds delta to the usage counter with a relative
// update expression. Read-modify-write in application code would lose
// updates under concurrent generation requests.
func (r *UserRepositoryImpl) IncrementCardsGenerated(ctx context.Context, userID string, delta int) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("cards_generated_this_month", gorm.Expr("cards_generated_this_month + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// FindDueForRollover returns users whose anchor predates the given period
// start, in batches for the sweep worker.
func (r *UserRepositoryImpl) FindDueForRollover(ctx context.Context, before time.Time, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("cards_reset_date < ?", before).
		Order("cards_reset_date ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// Billing operations

func (r *UserRepositoryImpl) SetStripeCustomerID(ctx context.Context, userID, customerID string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"stripe_customer_id": customerID,
		"updated_at":         time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateSubscription(ctx context.Context, userID string, sub SubscriptionUpdate) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"plan":                      sub.Plan,
		"stripe_subscription_id":    sub.SubscriptionID,
		"stripe_price_id":           sub.PriceID,
		"stripe_current_period_end": sub.CurrentPeriodEnd,
		"updated_at":                time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ClearSubscription reverts the user to the free tier and drops the
// subscription references. The customer id stays: it is reused on the next
// checkout.
func (r *UserRepositoryImpl) ClearSubscription(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"plan":                      models.PlanFree,
		"stripe_subscription_id":    nil,
		"stripe_price_id":           nil,
		"stripe_current_period_end": nil,
		"updated_at":                time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RefreshToken operations

func (r *UserRepositoryImpl) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *UserRepositoryImpl) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	var refreshToken models.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&refreshToken).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &refreshToken, nil
}

func (r *UserRepositoryImpl) DeleteRefreshToken(ctx context.Context, token string) error {
	result := r.db.WithContext(ctx).Where("token = ?", token).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) DeleteUserRefreshTokens(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
}

func (r *UserRepositoryImpl) CleanExpiredRefreshTokens(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{}).Error
}
