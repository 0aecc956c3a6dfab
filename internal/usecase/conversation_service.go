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

type ConversationCreate struct {
	CompanionID string `json:"ai_companion_id"`
	Title       string `json:"title"`
}

type ConversationUpdate struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

type ConversationService interface {
	Create(ctx context.Context, userID string, create ConversationCreate) (*domain.Conversation, error)
	Get(ctx context.Context, userID, id string) (*domain.Conversation, error)
	List(ctx context.Context, userID string) ([]domain.Conversation, error)
	Update(ctx context.Context, userID, id string, update ConversationUpdate) (*domain.Conversation, error)
	Delete(ctx context.Context, userID, id string) error
}

type conversationService struct {
	logger        pkglog.Logger
	conversations repo.ConversationRepository
	companions    repo.CompanionRepository
}

func NewConversationService(logger pkglog.Logger, conversations repo.ConversationRepository, companions repo.CompanionRepository) ConversationService {
	return &conversationService{logger: logger, conversations: conversations, companions: companions}
}

func (s *conversationService) Create(ctx context.Context, userID string, create ConversationCreate) (*domain.Conversation, error) {
	if create.CompanionID == "" || strings.TrimSpace(create.Title) == "" {
		return nil, ErrValidation
	}
	// Ownership of the companion gates conversation creation.
	if _, err := s.companions.FindByID(ctx, userID, create.CompanionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	conversation := &domain.Conversation{
		UserID:      userID,
		CompanionID: create.CompanionID,
		Title:       strings.TrimSpace(create.Title),
		Status:      "active",
	}
	if err := s.conversations.Create(ctx, conversation); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("conversation_id", conversation.ID).Msg("conversation created")
	return conversation, nil
}

func (s *conversationService) Get(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	conversation, err := s.conversations.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return conversation, nil
}

func (s *conversationService) List(ctx context.Context, userID string) ([]domain.Conversation, error) {
	return s.conversations.List(ctx, userID)
}

func (s *conversationService) Update(ctx context.Context, userID, id string, update ConversationUpdate) (*domain.Conversation, error) {
	conversation, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		if strings.TrimSpace(*update.Title) == "" {
			return nil, ErrValidation
		}
		conversation.Title = strings.TrimSpace(*update.Title)
	}
	if update.Status != nil {
		conversation.Status = *update.Status
	}
	if err := s.conversations.Update(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *conversationService) Delete(ctx context.Context, userID, id string) error {
	if err := s.conversations.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
