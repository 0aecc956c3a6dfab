package usecase

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/domain"
	pkglog "github.com/holomate/backend/pkg/log"
)

type CompanionCreate struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Personality map[string]interface{} `json:"personality"`
}

type CompanionUpdate struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Personality map[string]interface{} `json:"personality,omitempty"`
	Status      *string                `json:"status,omitempty"`
}

type CompanionService interface {
	Create(ctx context.Context, userID string, create CompanionCreate) (*domain.Companion, error)
	Get(ctx context.Context, userID, id string) (*domain.Companion, error)
	List(ctx context.Context, userID string) ([]domain.Companion, error)
	Update(ctx context.Context, userID, id string, update CompanionUpdate) (*domain.Companion, error)
	Delete(ctx context.Context, userID, id string) error
}

type companionService struct {
	logger     pkglog.Logger
	companions repo.CompanionRepository
}

func NewCompanionService(logger pkglog.Logger, companions repo.CompanionRepository) CompanionService {
	return &companionService{logger: logger, companions: companions}
}

func (s *companionService) Create(ctx context.Context, userID string, create CompanionCreate) (*domain.Companion, error) {
	if strings.TrimSpace(create.Name) == "" {
		return nil, ErrValidation
	}
	companion := &domain.Companion{
		UserID:      userID,
		Name:        strings.TrimSpace(create.Name),
		Description: create.Description,
		Personality: create.Personality,
		Status:      "active",
	}
	if err := s.companions.Create(ctx, companion); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("companion_id", companion.ID).Msg("companion created")
	return companion, nil
}

func (s *companionService) Get(ctx context.Context, userID, id string) (*domain.Companion, error) {
	companion, err := s.companions.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return companion, nil
}

func (s *companionService) List(ctx context.Context, userID string) ([]domain.Companion, error) {
	return s.companions.List(ctx, userID)
}

func (s *companionService) Update(ctx context.Context, userID, id string, update CompanionUpdate) (*domain.Companion, error) {
	companion, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, ErrValidation
		}
		companion.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		companion.Description = *update.Description
	}
	if update.Personality != nil {
		companion.Personality = update.Personality
	}
	if update.Status != nil {
		companion.Status = *update.Status
	}
	if err := s.companions.Update(ctx, companion); err != nil {
		return nil, err
	}
	return companion, nil
}

func (s *companionService) Delete(ctx context.Context, userID, id string) error {
	if err := s.companions.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
