package usecase

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/holomate/backend/internal/adapters/aiengine"
	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/domain"
	pkglog "github.com/holomate/backend/pkg/log"
)

const (
	MessageRoleUser      = "user"
	MessageRoleCompanion = "companion"
)

type MessageCreate struct {
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

type MessageService interface {
	// Create stores the user message and, when an engine is wired,
	// the companion's generated reply. The user message survives an
	// engine failure.
	Create(ctx context.Context, userID, conversationID string, create MessageCreate) (*domain.Message, *domain.Message, error)
	Get(ctx context.Context, userID, id string) (*domain.Message, error)
	List(ctx context.Context, userID, conversationID string, page, perPage int) ([]domain.Message, int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type messageService struct {
	logger        pkglog.Logger
	messages      repo.MessageRepository
	conversations repo.ConversationRepository
	engine        aiengine.Client
}

func NewMessageService(logger pkglog.Logger, messages repo.MessageRepository, conversations repo.ConversationRepository, engine aiengine.Client) MessageService {
	return &messageService{logger: logger, messages: messages, conversations: conversations, engine: engine}
}

func (s *messageService) Create(ctx context.Context, userID, conversationID string, create MessageCreate) (*domain.Message, *domain.Message, error) {
	if strings.TrimSpace(create.Content) == "" {
		return nil, nil, ErrValidation
	}
	conversation, err := s.conversations.FindByID(ctx, userID, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	contentType := create.ContentType
	if contentType == "" {
		contentType = "text"
	}
	message := &domain.Message{
		ConversationID: conversation.ID,
		Role:           MessageRoleUser,
		Content:        create.Content,
		ContentType:    contentType,
	}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, nil, err
	}

	var reply *domain.Message
	if s.engine != nil {
		text, err := s.engine.GenerateReply(ctx, conversation.CompanionID, conversation.ID, create.Content)
		if err != nil {
			s.logger.Warn().Err(err).Str("conversation_id", conversation.ID).Msg("companion reply failed")
			return message, nil, nil
		}
		reply = &domain.Message{
			ConversationID: conversation.ID,
			Role:           MessageRoleCompanion,
			Content:        text,
			ContentType:    "text",
		}
		if err := s.messages.Create(ctx, reply); err != nil {
			return nil, nil, err
		}
	}
	return message, reply, nil
}

func (s *messageService) Get(ctx context.Context, userID, id string) (*domain.Message, error) {
	message, err := s.messages.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return message, nil
}

func (s *messageService) List(ctx context.Context, userID, conversationID string, page, perPage int) ([]domain.Message, int64, error) {
	if _, err := s.conversations.FindByID(ctx, userID, conversationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	messages, err := s.messages.List(ctx, conversationID, page, perPage)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.messages.Count(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (s *messageService) Delete(ctx context.Context, userID, id string) error {
	if err := s.messages.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
