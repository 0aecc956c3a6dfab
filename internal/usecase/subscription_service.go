package usecase

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/domain"
	pkglog "github.com/holomate/backend/pkg/log"
)

type SubscriptionCreate struct {
	PlanName string  `json:"plan_name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
}

type SubscriptionService interface {
	Create(ctx context.Context, userID string, create SubscriptionCreate) (*domain.Subscription, error)
	Get(ctx context.Context, userID, id string) (*domain.Subscription, error)
	List(ctx context.Context, userID string) ([]domain.Subscription, error)
	Cancel(ctx context.Context, userID, id string) (*domain.Subscription, error)
}

type subscriptionService struct {
	logger        pkglog.Logger
	subscriptions repo.SubscriptionRepository
}

func NewSubscriptionService(logger pkglog.Logger, subscriptions repo.SubscriptionRepository) SubscriptionService {
	return &subscriptionService{logger: logger, subscriptions: subscriptions}
}

func (s *subscriptionService) Create(ctx context.Context, userID string, create SubscriptionCreate) (*domain.Subscription, error) {
	if create.PlanName == "" {
		return nil, ErrValidation
	}
	subscription := &domain.Subscription{
		UserID:    userID,
		PlanName:  create.PlanName,
		Status:    domain.SubscriptionStatusActive,
		StartDate: time.Now().UTC(),
		Price:     create.Price,
		Currency:  create.Currency,
	}
	if err := s.subscriptions.Create(ctx, subscription); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("plan", create.PlanName).Msg("subscription created")
	return subscription, nil
}

func (s *subscriptionService) Get(ctx context.Context, userID, id string) (*domain.Subscription, error) {
	subscription, err := s.subscriptions.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return subscription, nil
}

func (s *subscriptionService) List(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return s.subscriptions.List(ctx, userID)
}

func (s *subscriptionService) Cancel(ctx context.Context, userID, id string) (*domain.Subscription, error) {
	subscription, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	subscription.Status = domain.SubscriptionStatusCancelled
	subscription.EndDate = &now
	subscription.NextBillingDate = nil
	if err := s.subscriptions.Update(ctx, subscription); err != nil {
		return nil, err
	}
	return subscription, nil
}
