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

type SessionStart struct {
	DeviceID       string                 `json:"device_id"`
	ConversationID string                 `json:"conversation_id"`
	CompanionID    string                 `json:"companion_id"`
	AudioSettings  map[string]interface{} `json:"audio_settings"`
}

type StreamingService interface {
	Start(ctx context.Context, userID string, start SessionStart) (*domain.StreamingSession, error)
	Get(ctx context.Context, userID, id string) (*domain.StreamingSession, error)
	List(ctx context.Context, userID, status string, page, perPage int) ([]domain.StreamingSession, error)
	Heartbeat(ctx context.Context, userID, id string) (*domain.StreamingSession, error)
	End(ctx context.Context, userID, id string) (*domain.StreamingSession, error)
	Delete(ctx context.Context, userID, id string) error
}

type streamingService struct {
	logger     pkglog.Logger
	sessions   repo.StreamingSessionRepository
	devices    repo.DeviceRepository
	presence   PresenceTracker
	sessionTTL time.Duration
}

func NewStreamingService(logger pkglog.Logger, sessions repo.StreamingSessionRepository, devices repo.DeviceRepository, presence PresenceTracker, sessionTTL time.Duration) StreamingService {
	return &streamingService{logger: logger, sessions: sessions, devices: devices, presence: presence, sessionTTL: sessionTTL}
}

func (s *streamingService) Start(ctx context.Context, userID string, start SessionStart) (*domain.StreamingSession, error) {
	if start.DeviceID == "" {
		return nil, ErrValidation
	}
	if _, err := s.devices.FindByID(ctx, userID, start.DeviceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	// One active session per device.
	if _, err := s.sessions.FindActiveByDevice(ctx, start.DeviceID); err == nil {
		return nil, ErrDeviceBusy
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	session := &domain.StreamingSession{
		UserID:         userID,
		DeviceID:       start.DeviceID,
		ConversationID: start.ConversationID,
		CompanionID:    start.CompanionID,
		Status:         domain.SessionStatusActive,
		StartedAt:      now,
		LastActiveAt:   now,
		ExpiresAt:      now.Add(s.sessionTTL),
		AudioSettings:  start.AudioSettings,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	if s.presence != nil {
		_ = s.presence.Touch(ctx, start.DeviceID)
	}
	s.logger.Info().Str("user_id", userID).Str("session_id", session.ID).Str("device_id", start.DeviceID).Msg("streaming session started")
	return session, nil
}

func (s *streamingService) Get(ctx context.Context, userID, id string) (*domain.StreamingSession, error) {
	session, err := s.sessions.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

func (s *streamingService) List(ctx context.Context, userID, status string, page, perPage int) ([]domain.StreamingSession, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.sessions.List(ctx, userID, status, page, perPage)
}

func (s *streamingService) Heartbeat(ctx context.Context, userID, id string) (*domain.StreamingSession, error) {
	session, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if session.Status == domain.SessionStatusActive && now.After(session.ExpiresAt) {
		session.Status = domain.SessionStatusExpired
		if err := s.sessions.Update(ctx, session); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	session.LastActiveAt = now
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	if s.presence != nil {
		_ = s.presence.Touch(ctx, session.DeviceID)
	}
	return session, nil
}

func (s *streamingService) End(ctx context.Context, userID, id string) (*domain.StreamingSession, error) {
	session, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	session.Status = domain.SessionStatusEnded
	session.EndedAt = &now
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("session_id", id).Msg("streaming session ended")
	return session, nil
}

func (s *streamingService) Delete(ctx context.Context, userID, id string) error {
	if err := s.sessions.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
