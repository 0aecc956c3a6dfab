package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/holomate/backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIdentifier matches the stored email or username exactly.
	FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	// ConsumeByHash deletes the record matching hash and returns it.
	// Lookup and delete are one statement; of N concurrent calls with
	// the same hash exactly one receives the record.
	ConsumeByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type CompanionRepository interface {
	Create(ctx context.Context, companion *domain.Companion) error
	FindByID(ctx context.Context, userID, id string) (*domain.Companion, error)
	List(ctx context.Context, userID string) ([]domain.Companion, error)
	Update(ctx context.Context, companion *domain.Companion) error
	Delete(ctx context.Context, userID, id string) error
}

type ConversationRepository interface {
	Create(ctx context.Context, conversation *domain.Conversation) error
	FindByID(ctx context.Context, userID, id string) (*domain.Conversation, error)
	List(ctx context.Context, userID string) ([]domain.Conversation, error)
	Update(ctx context.Context, conversation *domain.Conversation) error
	Delete(ctx context.Context, userID, id string) error
}

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	FindByID(ctx context.Context, userID, id string) (*domain.Message, error)
	List(ctx context.Context, conversationID string, page, perPage int) ([]domain.Message, error)
	Count(ctx context.Context, conversationID string) (int64, error)
	Delete(ctx context.Context, userID, id string) error
}

type VoiceProfileRepository interface {
	Create(ctx context.Context, profile *domain.VoiceProfile) error
	// Ownership runs through the owning companion.
	FindByID(ctx context.Context, userID, id string) (*domain.VoiceProfile, error)
	FindActiveByCompanion(ctx context.Context, companionID string) (*domain.VoiceProfile, error)
	List(ctx context.Context, userID, companionID string) ([]domain.VoiceProfile, error)
	Update(ctx context.Context, profile *domain.VoiceProfile) error
	DeactivateOthers(ctx context.Context, companionID, keepID string) error
}

type DeviceRepository interface {
	Create(ctx context.Context, device *domain.Device) error
	FindByID(ctx context.Context, userID, id string) (*domain.Device, error)
	FindBySerial(ctx context.Context, serial string) (*domain.Device, error)
	List(ctx context.Context, userID, status string, page, perPage int) ([]domain.Device, error)
	Update(ctx context.Context, device *domain.Device) error
	Delete(ctx context.Context, userID, id string) error
}

type StreamingSessionRepository interface {
	Create(ctx context.Context, session *domain.StreamingSession) error
	FindByID(ctx context.Context, userID, id string) (*domain.StreamingSession, error)
	FindActiveByDevice(ctx context.Context, deviceID string) (*domain.StreamingSession, error)
	List(ctx context.Context, userID, status string, page, perPage int) ([]domain.StreamingSession, error)
	Update(ctx context.Context, session *domain.StreamingSession) error
	Delete(ctx context.Context, userID, id string) error
}

type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *domain.Subscription) error
	FindByID(ctx context.Context, userID, id string) (*domain.Subscription, error)
	List(ctx context.Context, userID string) ([]domain.Subscription, error)
	Update(ctx context.Context, subscription *domain.Subscription) error
	Delete(ctx context.Context, userID, id string) error
}

// Store vends repositories bound to one database handle and runs
// multi-repository work in a single transaction.
type Store interface {
	Users() UserRepository
	RefreshTokens() RefreshTokenRepository
	Companions() CompanionRepository
	Conversations() ConversationRepository
	Messages() MessageRepository
	VoiceProfiles() VoiceProfileRepository
	Devices() DeviceRepository
	StreamingSessions() StreamingSessionRepository
	Subscriptions() SubscriptionRepository
	// Transaction runs fn against a Store bound to one transaction;
	// any error (or context cancellation) rolls the whole unit back.
	Transaction(ctx context.Context, fn func(Store) error) error
}

type gormStore struct{ db *gorm.DB }

func NewStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) Users() UserRepository                       { return &userRepo{db: s.db} }
func (s *gormStore) RefreshTokens() RefreshTokenRepository       { return &refreshTokenRepo{db: s.db} }
func (s *gormStore) Companions() CompanionRepository             { return &companionRepo{db: s.db} }
func (s *gormStore) Conversations() ConversationRepository       { return &conversationRepo{db: s.db} }
func (s *gormStore) Messages() MessageRepository                 { return &messageRepo{db: s.db} }
func (s *gormStore) VoiceProfiles() VoiceProfileRepository       { return &voiceProfileRepo{db: s.db} }
func (s *gormStore) Devices() DeviceRepository                   { return &deviceRepo{db: s.db} }
func (s *gormStore) StreamingSessions() StreamingSessionRepository {
	return &streamingSessionRepo{db: s.db}
}
func (s *gormStore) Subscriptions() SubscriptionRepository { return &subscriptionRepo{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// Migrate creates or updates the schema for every table the platform
// owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Companion{},
		&domain.Conversation{},
		&domain.Message{},
		&domain.VoiceProfile{},
		&domain.Device{},
		&domain.StreamingSession{},
		&domain.Subscription{},
	)
}
