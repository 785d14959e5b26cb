package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	portal "github.com/stripe/stripe-go/v79/billingportal/session"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/izzat2702/KognitDeck/internal/config"
	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/models"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/services/dto"
	"github.com/izzat2702/KognitDeck/pkg/apperrors"
)

// BillingService keeps the local plan column in sync with Stripe. Stripe is
// the source of truth for paid tiers; this service only mirrors it.
type BillingService interface {
	CreateCheckout(ctx context.Context, userID string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	CreatePortal(ctx context.Context, userID string) (*dto.PortalResponse, error)

	// HandleWebhook verifies the event signature and applies subscription
	// state changes. Signature failures surface as ErrInvalidSignature;
	// processing failures after verification are logged and swallowed so
	// Stripe does not retry events that will never succeed.
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error

	// PlanFromPriceID maps a Stripe price to a tier, falling back to free
	// for unknown prices.
	PlanFromPriceID(priceID string) models.PlanTier
}

// subscriptionFetcher retrieves a subscription by id. Indirection so tests
// can run the checkout-completed path without a Stripe backend.
type subscriptionFetcher func(subscriptionID string) (*stripe.Subscription, error)

type BillingServiceImpl struct {
	users     repositories.UserRepository
	cfg       config.StripeConfig
	fetchSub  subscriptionFetcher
	verifySig bool
}

func NewBillingService(users repositories.UserRepository, cfg config.StripeConfig) BillingService {
	stripe.Key = cfg.SecretKey
	return &BillingServiceImpl{
		users: users,
		cfg:   cfg,
		fetchSub: func(id string) (*stripe.Subscription, error) {
			return subscription.Get(id, nil)
		},
		verifySig: true,
	}
}

// NewBillingServiceForTest skips signature verification when secret is
// empty and uses the supplied fetcher.
func NewBillingServiceForTest(users repositories.UserRepository, cfg config.StripeConfig, fetch subscriptionFetcher) *BillingServiceImpl {
	return &BillingServiceImpl{
		users:     users,
		cfg:       cfg,
		fetchSub:  fetch,
		verifySig: cfg.WebhookSecret != "",
	}
}

func (s *BillingServiceImpl) CreateCheckout(ctx context.Context, userID string, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := models.ParsePlanTier(req.Plan)
	priceID := s.priceFor(plan, models.BillingInterval(req.Interval))
	if priceID == "" {
		return nil, apperrors.ErrPlanNotPurchasable
	}

	customerID, err := s.ensureCustomer(ctx, user)
	if err != nil {
		return nil, err
	}

	appURL := strings.TrimRight(s.cfg.AppURL, "/")
	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(appURL + "/billing/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(appURL + "/pricing"),
		Metadata: map[string]string{
			"userId": user.ID,
			"plan":   string(plan),
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"userId": user.ID,
				"plan":   string(plan),
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "billing", "Failed to create checkout session", 502)
	}

	logger.CtxInfo(ctx, "checkout session created", "user_id", user.ID, "plan", plan)
	return &dto.CheckoutResponse{URL: sess.URL}, nil
}

func (s *BillingServiceImpl) CreatePortal(ctx context.Context, userID string) (*dto.PortalResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		return nil, apperrors.ErrNoBillingAccount
	}

	appURL := strings.TrimRight(s.cfg.AppURL, "/")
	sess, err := portal.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(appURL + "/settings/billing"),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "billing", "Failed to create portal session", 502)
	}

	return &dto.PortalResponse{URL: sess.URL}, nil
}

func (s *BillingServiceImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	var event stripe.Event
	if s.verifySig {
		verified, err := webhook.ConstructEventWithOptions(payload, sigHeader, s.cfg.WebhookSecret,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
		if err != nil {
			return apperrors.ErrInvalidSignature.WithError(err)
		}
		event = verified
	} else if err := json.Unmarshal(payload, &event); err != nil {
		return apperrors.NewBadRequestError("invalid event payload")
	}

	if err := s.applyEvent(ctx, event); err != nil {
		// Acknowledged anyway. These failures are not fixed by redelivery
		// and retries would just pile up in the Stripe dashboard.
		logger.CtxError(ctx, "webhook event processing failed",
			"event_id", event.ID, "event_type", event.Type, "error", err)
	}
	return nil
}

func (s *BillingServiceImpl) applyEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		if sess.Subscription == nil {
			return errors.New("checkout session has no subscription")
		}
		sub, err := s.fetchSub(sess.Subscription.ID)
		if err != nil {
			return err
		}
		return s.applySubscription(ctx, sub)

	case "customer.subscription.created", "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		return s.applySubscription(ctx, &sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return err
		}
		user, err := s.userForSubscription(ctx, &sub)
		if err != nil {
			return err
		}
		if err := s.users.ClearSubscription(ctx, user.ID); err != nil {
			return err
		}
		logger.CtxInfo(ctx, "subscription cancelled", "user_id", user.ID)
		return nil

	default:
		// Unhandled event types are acknowledged without action.
		return nil
	}
}

// applySubscription projects one subscription object onto the user row.
// Only active and trialing subscriptions grant a paid tier; every other
// status (past_due, canceled, unpaid, incomplete) falls back to free.
func (s *BillingServiceImpl) applySubscription(ctx context.Context, sub *stripe.Subscription) error {
	user, err := s.userForSubscription(ctx, sub)
	if err != nil {
		return err
	}

	priceID := ""
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceID = sub.Items.Data[0].Price.ID
	}

	plan := models.PlanFree
	if sub.Status == stripe.SubscriptionStatusActive || sub.Status == stripe.SubscriptionStatusTrialing {
		plan = s.PlanFromPriceID(priceID)
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	update := repositories.SubscriptionUpdate{
		Plan:             plan,
		SubscriptionID:   &sub.ID,
		PriceID:          &priceID,
		CurrentPeriodEnd: &periodEnd,
	}
	if err := s.users.UpdateSubscription(ctx, user.ID, update); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "subscription state applied",
		"user_id", user.ID, "plan", plan, "status", sub.Status)
	return nil
}

// userForSubscription resolves the local user, preferring the userId
// metadata stamped at checkout and falling back to the customer reference.
func (s *BillingServiceImpl) userForSubscription(ctx context.Context, sub *stripe.Subscription) (*models.User, error) {
	if userID := sub.Metadata["userId"]; userID != "" {
		user, err := s.users.FindByID(ctx, userID)
		if err == nil {
			return user, nil
		}
	}
	if sub.Customer != nil && sub.Customer.ID != "" {
		return s.users.FindByStripeCustomerID(ctx, sub.Customer.ID)
	}
	return nil, errors.New("subscription has no resolvable user")
}

func (s *BillingServiceImpl) PlanFromPriceID(priceID string) models.PlanTier {
	switch priceID {
	case s.cfg.ProPriceID, s.cfg.ProAnnualPriceID:
		return models.PlanPro
	case s.cfg.PremiumPriceID, s.cfg.PremiumAnnualPriceID:
		return models.PlanPremium
	default:
		return models.PlanFree
	}
}

func (s *BillingServiceImpl) priceFor(plan models.PlanTier, interval models.BillingInterval) string {
	annual := interval == models.BillingAnnual
	switch plan {
	case models.PlanPro:
		if annual {
			return s.cfg.ProAnnualPriceID
		}
		return s.cfg.ProPriceID
	case models.PlanPremium:
		if annual {
			return s.cfg.PremiumAnnualPriceID
		}
		return s.cfg.PremiumPriceID
	default:
		return ""
	}
}

// ensureCustomer creates the Stripe customer on first use and persists the
// id. Later checkouts and the portal reuse the same customer.
func (s *BillingServiceImpl) ensureCustomer(ctx context.Context, user *models.User) (string, error) {
	if user.StripeCustomerID != nil && *user.StripeCustomerID != "" {
		return *user.StripeCustomerID, nil
	}

	cust, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Name:  stripe.String(user.Name),
		Metadata: map[string]string{
			"userId": user.ID,
		},
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeExternalServiceError, "billing", "Failed to create billing customer", 502)
	}

	if err := s.users.SetStripeCustomerID(ctx, user.ID, cust.ID); err != nil {
		return "", apperrors.Internal("failed to store billing customer id").WithError(err)
	}
	return cust.ID, nil
}

func (s *BillingServiceImpl) loadUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.Internal("failed to load user").WithError(err)
	}
	return user, nil
}
