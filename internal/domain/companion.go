package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Companion struct {
	ID          string                 `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string                 `gorm:"type:uuid;index;not null" json:"user_id"`
	Name        string                 `gorm:"not null" json:"name"`
	Description string                 `json:"description,omitempty"`
	Personality map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"personality,omitempty"`
	Status      string                 `gorm:"not null;default:active" json:"status"`
	CreatedAt   time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Companion) TableName() string { return "ai_companions" }

func (c *Companion) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Conversation struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;index;not null" json:"user_id"`
	CompanionID string    `gorm:"type:uuid;index;not null" json:"ai_companion_id"`
	Title       string    `gorm:"not null" json:"title"`
	Status      string    `gorm:"not null;default:active" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Conversation) TableName() string { return "conversations" }

func (c *Conversation) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Voice profile statuses. A companion has at most one active profile.
const (
	VoiceProfileActive   = "active"
	VoiceProfileInactive = "inactive"
	VoiceProfileArchived = "archived"
)

type VoiceProfile struct {
	ID              string                 `gorm:"type:uuid;primaryKey" json:"id"`
	CompanionID     string                 `gorm:"type:uuid;index;not null" json:"ai_companion_id"`
	ProviderName    string                 `gorm:"not null;default:elevenlabs" json:"provider_name"`
	ProviderVoiceID string                 `gorm:"not null" json:"provider_voice_id"`
	Settings        map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"settings,omitempty"`
	Status          string                 `gorm:"not null;default:active" json:"status"`
	CreatedAt       time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (VoiceProfile) TableName() string { return "voice_profiles" }

func (p *VoiceProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Message struct {
	ID             string    `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string    `gorm:"type:uuid;index;not null" json:"conversation_id"`
	Role           string    `gorm:"not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	ContentType    string    `gorm:"not null;default:text" json:"content_type"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
