package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Device statuses.
const (
	DeviceStatusOnline   = "online"
	DeviceStatusOffline  = "offline"
	DeviceStatusUnpaired = "unpaired"
)

// Streaming session statuses.
const (
	SessionStatusActive     = "active"
	SessionStatusConnecting = "connecting"
	SessionStatusError      = "error"
	SessionStatusExpired    = "expired"
	SessionStatusEnded      = "ended"
)

type Device struct {
	ID              string                 `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          string                 `gorm:"type:uuid;index;not null" json:"user_id"`
	Name            string                 `gorm:"not null" json:"name"`
	DeviceType      string                 `gorm:"not null" json:"device_type"`
	Status          string                 `gorm:"not null;default:unpaired" json:"status"`
	SerialNumber    string                 `gorm:"uniqueIndex;not null" json:"serial_number"`
	DeviceModel     string                 `json:"device_model,omitempty"`
	FirmwareVersion string                 `json:"firmware_version,omitempty"`
	HardwareInfo    map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"hardware_info,omitempty"`
	Settings        map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"settings,omitempty"`
	LastSeenAt      time.Time              `gorm:"not null" json:"last_seen_at"`
	CreatedAt       time.Time              `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time              `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Device) TableName() string { return "hologram_devices" }

func (d *Device) BeforeCreate(*gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

type StreamingSession struct {
	ID             string                 `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string                 `gorm:"type:uuid;index;not null" json:"user_id"`
	DeviceID       string                 `gorm:"type:uuid;index;not null" json:"device_id"`
	ConversationID string                 `gorm:"type:uuid" json:"conversation_id,omitempty"`
	CompanionID    string                 `gorm:"type:uuid" json:"companion_id,omitempty"`
	Status         string                 `gorm:"index;not null;default:active" json:"status"`
	StartedAt      time.Time              `gorm:"not null" json:"started_at"`
	EndedAt        *time.Time             `json:"ended_at,omitempty"`
	LastActiveAt   time.Time              `json:"last_active_at"`
	ExpiresAt      time.Time              `gorm:"index" json:"expires_at"`
	AudioSettings  map[string]interface{} `gorm:"type:jsonb;serializer:json" json:"audio_settings,omitempty"`
	CreatedAt      time.Time              `gorm:"autoCreateTime" json:"created_at"`
}

func (StreamingSession) TableName() string { return "streaming_sessions" }

func (s *StreamingSession) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
