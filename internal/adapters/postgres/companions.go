package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/holomate/backend/internal/domain"
)

type companionRepo struct{ db *gorm.DB }

func (r *companionRepo) Create(ctx context.Context, companion *domain.Companion) error {
	return r.db.WithContext(ctx).Create(companion).Error
}

func (r *companionRepo) FindByID(ctx context.Context, userID, id string) (*domain.Companion, error) {
	var companion domain.Companion
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&companion).Error; err != nil {
		return nil, err
	}
	return &companion, nil
}

func (r *companionRepo) List(ctx context.Context, userID string) ([]domain.Companion, error) {
	var companions []domain.Companion
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&companions).Error; err != nil {
		return nil, err
	}
	return companions, nil
}

func (r *companionRepo) Update(ctx context.Context, companion *domain.Companion) error {
	return r.db.WithContext(ctx).Save(companion).Error
}

func (r *companionRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Companion{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type conversationRepo struct{ db *gorm.DB }

func (r *conversationRepo) Create(ctx context.Context, conversation *domain.Conversation) error {
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *conversationRepo) FindByID(ctx context.Context, userID, id string) (*domain.Conversation, error) {
	var conversation domain.Conversation
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (r *conversationRepo) List(ctx context.Context, userID string) ([]domain.Conversation, error) {
	var conversations []domain.Conversation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepo) Update(ctx context.Context, conversation *domain.Conversation) error {
	return r.db.WithContext(ctx).Save(conversation).Error
}

func (r *conversationRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Conversation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type voiceProfileRepo struct{ db *gorm.DB }

func (r *voiceProfileRepo) Create(ctx context.Context, profile *domain.VoiceProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *voiceProfileRepo) FindByID(ctx context.Context, userID, id string) (*domain.VoiceProfile, error) {
	var profile domain.VoiceProfile
	if err := r.db.WithContext(ctx).
		Joins("JOIN ai_companions ON ai_companions.id = voice_profiles.ai_companion_id").
		Where("voice_profiles.id = ? AND ai_companions.user_id = ?", id, userID).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *voiceProfileRepo) FindActiveByCompanion(ctx context.Context, companionID string) (*domain.VoiceProfile, error) {
	var profile domain.VoiceProfile
	if err := r.db.WithContext(ctx).
		Where("ai_companion_id = ? AND status = ?", companionID, domain.VoiceProfileActive).
		First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *voiceProfileRepo) List(ctx context.Context, userID, companionID string) ([]domain.VoiceProfile, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN ai_companions ON ai_companions.id = voice_profiles.ai_companion_id").
		Where("ai_companions.user_id = ?", userID)
	if companionID != "" {
		q = q.Where("voice_profiles.ai_companion_id = ?", companionID)
	}
	var profiles []domain.VoiceProfile
	if err := q.Order("voice_profiles.created_at DESC").Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *voiceProfileRepo) Update(ctx context.Context, profile *domain.VoiceProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *voiceProfileRepo) DeactivateOthers(ctx context.Context, companionID, keepID string) error {
	return r.db.WithContext(ctx).
		Model(&domain.VoiceProfile{}).
		Where("ai_companion_id = ? AND id <> ? AND status = ?", companionID, keepID, domain.VoiceProfileActive).
		Update("status", domain.VoiceProfileInactive).Error
}

type messageRepo struct{ db *gorm.DB }

func (r *messageRepo) Create(ctx context.Context, message *domain.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *messageRepo) FindByID(ctx context.Context, userID, id string) (*domain.Message, error) {
	var message domain.Message
	if err := r.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.id = messages.conversation_id").
		Where("messages.id = ? AND conversations.user_id = ?", id, userID).
		First(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepo) List(ctx context.Context, conversationID string, page, perPage int) ([]domain.Message, error) {
	var messages []domain.Message
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepo) Count(ctx context.Context, conversationID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("conversation_id = ?", conversationID).
		Count(&count).Error
	return count, err
}

func (r *messageRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.
			Model(&domain.Message{}).
			Select("messages.id").
			Joins("JOIN conversations ON conversations.id = messages.conversation_id").
			Where("messages.id = ? AND conversations.user_id = ?", id, userID)).
		Delete(&domain.Message{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
