package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	repo "github.com/holomate/backend/internal/adapters/postgres"
	"github.com/holomate/backend/internal/domain"
	pkglog "github.com/holomate/backend/pkg/log"
)

type DeviceRegister struct {
	SerialNumber    string                 `json:"serial_number"`
	Name            string                 `json:"name"`
	DeviceType      string                 `json:"device_type"`
	DeviceModel     string                 `json:"device_model"`
	FirmwareVersion string                 `json:"firmware_version"`
	HardwareInfo    map[string]interface{} `json:"hardware_info"`
}

type DeviceUpdate struct {
	Name            *string                `json:"name,omitempty"`
	Status          *string                `json:"status,omitempty"`
	Settings        map[string]interface{} `json:"settings,omitempty"`
	FirmwareVersion *string                `json:"firmware_version,omitempty"`
	DeviceModel     *string                `json:"device_model,omitempty"`
}

// PresenceTracker mirrors device heartbeats into a fast store so status
// reads skip the database. Nil disables presence tracking.
type PresenceTracker interface {
	Touch(ctx context.Context, deviceID string) error
	Forget(ctx context.Context, deviceID string) error
}

type DeviceService interface {
	Register(ctx context.Context, userID string, register DeviceRegister) (*domain.Device, error)
	Get(ctx context.Context, userID, id string) (*domain.Device, error)
	List(ctx context.Context, userID, status string, page, perPage int) ([]domain.Device, error)
	Update(ctx context.Context, userID, id string, update DeviceUpdate) (*domain.Device, error)
	Delete(ctx context.Context, userID, id string) error
	Heartbeat(ctx context.Context, userID, id string) (*domain.Device, error)
}

type deviceService struct {
	logger   pkglog.Logger
	devices  repo.DeviceRepository
	presence PresenceTracker
}

func NewDeviceService(logger pkglog.Logger, devices repo.DeviceRepository, presence PresenceTracker) DeviceService {
	return &deviceService{logger: logger, devices: devices, presence: presence}
}

func (s *deviceService) Register(ctx context.Context, userID string, register DeviceRegister) (*domain.Device, error) {
	serial := strings.TrimSpace(register.SerialNumber)
	if serial == "" {
		return nil, ErrValidation
	}
	if _, err := s.devices.FindBySerial(ctx, serial); err == nil {
		return nil, ErrSerialNumberExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	name := strings.TrimSpace(register.Name)
	if name == "" {
		name = "Device " + serial
	}
	deviceType := register.DeviceType
	if deviceType == "" {
		deviceType = "hologram_fan"
	}
	device := &domain.Device{
		UserID:          userID,
		Name:            name,
		DeviceType:      deviceType,
		Status:          domain.DeviceStatusUnpaired,
		SerialNumber:    serial,
		DeviceModel:     register.DeviceModel,
		FirmwareVersion: register.FirmwareVersion,
		HardwareInfo:    register.HardwareInfo,
		LastSeenAt:      time.Now().UTC(),
	}
	if err := s.devices.Create(ctx, device); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("device_id", device.ID).Msg("device registered")
	return device, nil
}

func (s *deviceService) Get(ctx context.Context, userID, id string) (*domain.Device, error) {
	device, err := s.devices.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return device, nil
}

func (s *deviceService) List(ctx context.Context, userID, status string, page, perPage int) ([]domain.Device, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.devices.List(ctx, userID, status, page, perPage)
}

func (s *deviceService) Update(ctx context.Context, userID, id string, update DeviceUpdate) (*domain.Device, error) {
	device, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if update.Name != nil {
		device.Name = strings.TrimSpace(*update.Name)
	}
	if update.Status != nil {
		device.Status = *update.Status
	}
	if update.Settings != nil {
		device.Settings = update.Settings
	}
	if update.FirmwareVersion != nil {
		device.FirmwareVersion = *update.FirmwareVersion
	}
	if update.DeviceModel != nil {
		device.DeviceModel = *update.DeviceModel
	}
	if err := s.devices.Update(ctx, device); err != nil {
		return nil, err
	}
	return device, nil
}

func (s *deviceService) Delete(ctx context.Context, userID, id string) error {
	if err := s.devices.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if s.presence != nil {
		_ = s.presence.Forget(ctx, id)
	}
	return nil
}

// Heartbeat marks the device online and bumps its last-seen stamp in
// both the database and the presence tracker.
func (s *deviceService) Heartbeat(ctx context.Context, userID, id string) (*domain.Device, error) {
	device, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	device.Status = domain.DeviceStatusOnline
	device.LastSeenAt = time.Now().UTC()
	if err := s.devices.Update(ctx, device); err != nil {
		return nil, err
	}
	if s.presence != nil {
		if err := s.presence.Touch(ctx, id); err != nil {
			s.logger.Warn().Err(err).Str("device_id", id).Msg("presence touch failed")
		}
	}
	return device, nil
}
