package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/holomate/backend/internal/domain"
)

type deviceRepo struct{ db *gorm.DB }

func (r *deviceRepo) Create(ctx context.Context, device *domain.Device) error {
	return r.db.WithContext(ctx).Create(device).Error
}

func (r *deviceRepo) FindByID(ctx context.Context, userID, id string) (*domain.Device, error) {
	var device domain.Device
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepo) FindBySerial(ctx context.Context, serial string) (*domain.Device, error) {
	var device domain.Device
	if err := r.db.WithContext(ctx).
		Where("serial_number = ?", serial).
		First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *deviceRepo) List(ctx context.Context, userID, status string, page, perPage int) ([]domain.Device, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var devices []domain.Device
	if err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *deviceRepo) Update(ctx context.Context, device *domain.Device) error {
	return r.db.WithContext(ctx).Save(device).Error
}

func (r *deviceRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Device{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type streamingSessionRepo struct{ db *gorm.DB }

func (r *streamingSessionRepo) Create(ctx context.Context, session *domain.StreamingSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *streamingSessionRepo) FindByID(ctx context.Context, userID, id string) (*domain.StreamingSession, error) {
	var session domain.StreamingSession
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *streamingSessionRepo) FindActiveByDevice(ctx context.Context, deviceID string) (*domain.StreamingSession, error) {
	var session domain.StreamingSession
	if err := r.db.WithContext(ctx).
		Where("device_id = ? AND status = ?", deviceID, domain.SessionStatusActive).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *streamingSessionRepo) List(ctx context.Context, userID, status string, page, perPage int) ([]domain.StreamingSession, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var sessions []domain.StreamingSession
	if err := q.Order("started_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *streamingSessionRepo) Update(ctx context.Context, session *domain.StreamingSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *streamingSessionRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.StreamingSession{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type subscriptionRepo struct{ db *gorm.DB }

func (r *subscriptionRepo) Create(ctx context.Context, subscription *domain.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *subscriptionRepo) FindByID(ctx context.Context, userID, id string) (*domain.Subscription, error) {
	var subscription domain.Subscription
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepo) List(ctx context.Context, userID string) ([]domain.Subscription, error) {
	var subscriptions []domain.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subscriptions).Error; err != nil {
		return nil, err
	}
	return subscriptions, nil
}

func (r *subscriptionRepo) Update(ctx context.Context, subscription *domain.Subscription) error {
	return r.db.WithContext(ctx).Save(subscription).Error
}

func (r *subscriptionRepo) Delete(ctx context.Context, userID, id string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
