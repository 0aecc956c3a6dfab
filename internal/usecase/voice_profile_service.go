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

type VoiceProfileCreate struct {
	CompanionID     string                 `json:"ai_companion_id"`
	ProviderName    string                 `json:"provider_name"`
	ProviderVoiceID string                 `json:"provider_voice_id"`
	Settings        map[string]interface{} `json:"settings"`
}

type VoiceProfileUpdate struct {
	ProviderName    *string                `json:"provider_name,omitempty"`
	ProviderVoiceID *string                `json:"provider_voice_id,omitempty"`
	Settings        map[string]interface{} `json:"settings,omitempty"`
	Status          *string                `json:"status,omitempty"`
}

// VoiceProfileService manages TTS voice bindings for companions.
// Deleting archives; a companion keeps at most one active profile.
type VoiceProfileService interface {
	Create(ctx context.Context, userID string, create VoiceProfileCreate) (*domain.VoiceProfile, error)
	Get(ctx context.Context, userID, id string) (*domain.VoiceProfile, error)
	List(ctx context.Context, userID, companionID string) ([]domain.VoiceProfile, error)
	Update(ctx context.Context, userID, id string, update VoiceProfileUpdate) (*domain.VoiceProfile, error)
	Activate(ctx context.Context, userID, id string) (*domain.VoiceProfile, error)
	Archive(ctx context.Context, userID, id string) error
}

type voiceProfileService struct {
	logger     pkglog.Logger
	profiles   repo.VoiceProfileRepository
	companions repo.CompanionRepository
}

func NewVoiceProfileService(logger pkglog.Logger, profiles repo.VoiceProfileRepository, companions repo.CompanionRepository) VoiceProfileService {
	return &voiceProfileService{logger: logger, profiles: profiles, companions: companions}
}

func (s *voiceProfileService) Create(ctx context.Context, userID string, create VoiceProfileCreate) (*domain.VoiceProfile, error) {
	if strings.TrimSpace(create.ProviderName) == "" || strings.TrimSpace(create.ProviderVoiceID) == "" {
		return nil, ErrValidation
	}
	if _, err := s.companions.FindByID(ctx, userID, create.CompanionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if _, err := s.profiles.FindActiveByCompanion(ctx, create.CompanionID); err == nil {
		return nil, ErrVoiceProfileActive
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	profile := &domain.VoiceProfile{
		CompanionID:     create.CompanionID,
		ProviderName:    strings.TrimSpace(create.ProviderName),
		ProviderVoiceID: strings.TrimSpace(create.ProviderVoiceID),
		Settings:        create.Settings,
		Status:          domain.VoiceProfileActive,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("voice_profile_id", profile.ID).Msg("voice profile created")
	return profile, nil
}

func (s *voiceProfileService) Get(ctx context.Context, userID, id string) (*domain.VoiceProfile, error) {
	profile, err := s.profiles.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (s *voiceProfileService) List(ctx context.Context, userID, companionID string) ([]domain.VoiceProfile, error) {
	return s.profiles.List(ctx, userID, companionID)
}

func (s *voiceProfileService) Update(ctx context.Context, userID, id string, update VoiceProfileUpdate) (*domain.VoiceProfile, error) {
	profile, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.ProviderName != nil {
		if strings.TrimSpace(*update.ProviderName) == "" {
			return nil, ErrValidation
		}
		profile.ProviderName = strings.TrimSpace(*update.ProviderName)
	}
	if update.ProviderVoiceID != nil {
		if strings.TrimSpace(*update.ProviderVoiceID) == "" {
			return nil, ErrValidation
		}
		profile.ProviderVoiceID = strings.TrimSpace(*update.ProviderVoiceID)
	}
	if update.Settings != nil {
		profile.Settings = update.Settings
	}
	if update.Status != nil {
		switch *update.Status {
		case domain.VoiceProfileActive, domain.VoiceProfileInactive, domain.VoiceProfileArchived:
			profile.Status = *update.Status
		default:
			return nil, ErrValidation
		}
	}
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Activate makes the profile the companion's voice, demoting any other
// active profile on the same companion.
func (s *voiceProfileService) Activate(ctx context.Context, userID, id string) (*domain.VoiceProfile, error) {
	profile, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.DeactivateOthers(ctx, profile.CompanionID, profile.ID); err != nil {
		return nil, err
	}
	profile.Status = domain.VoiceProfileActive
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *voiceProfileService) Archive(ctx context.Context, userID, id string) error {
	profile, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	profile.Status = domain.VoiceProfileArchived
	if err := s.profiles.Update(ctx, profile); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", userID).Str("voice_profile_id", id).Msg("voice profile archived")
	return nil
}
