package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/holomate/backend/internal/domain"
)

// In-memory repositories backing the service tests. The refresh token
// repo guards its map with a mutex so the single-use guarantee can be
// exercised concurrently.

type memRefreshRepo struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken
}

func newMemRefreshRepo() *memRefreshRepo {
	return &memRefreshRepo{tokens: map[string]domain.RefreshToken{}}
}

func (r *memRefreshRepo) Create(_ context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if token.ID == "" {
		token.ID = fmt.Sprintf("refresh-%d", len(r.tokens)+1)
	}
	r.tokens[token.TokenHash] = *token
	return nil
}

func (r *memRefreshRepo) ConsumeByHash(_ context.Context, hash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[hash]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	delete(r.tokens, hash)
	return &tok, nil
}

func (r *memRefreshRepo) DeleteByUser(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for hash, tok := range r.tokens {
		if tok.UserID == userID {
			delete(r.tokens, hash)
		}
	}
	return nil
}

func (r *memRefreshRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tokens)
}

type memCompanionRepo struct {
	companions map[string]*domain.Companion
	next       int
}

func newMemCompanionRepo() *memCompanionRepo {
	return &memCompanionRepo{companions: map[string]*domain.Companion{}}
}

func (r *memCompanionRepo) Create(_ context.Context, c *domain.Companion) error {
	if c.ID == "" {
		r.next++
		c.ID = fmt.Sprintf("companion-%d", r.next)
	}
	if c.Status == "" {
		c.Status = "active"
	}
	r.companions[c.ID] = c
	return nil
}

func (r *memCompanionRepo) FindByID(_ context.Context, userID, id string) (*domain.Companion, error) {
	c, ok := r.companions[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *memCompanionRepo) List(_ context.Context, userID string) ([]domain.Companion, error) {
	var out []domain.Companion
	for _, c := range r.companions {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memCompanionRepo) Update(_ context.Context, c *domain.Companion) error {
	r.companions[c.ID] = c
	return nil
}

func (r *memCompanionRepo) Delete(_ context.Context, userID, id string) error {
	c, ok := r.companions[id]
	if !ok || c.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.companions, id)
	return nil
}

// memVoiceProfileRepo resolves ownership through the companion repo,
// the way the SQL join does.
type memVoiceProfileRepo struct {
	profiles   map[string]*domain.VoiceProfile
	companions *memCompanionRepo
	next       int
}

func newMemVoiceProfileRepo(companions *memCompanionRepo) *memVoiceProfileRepo {
	return &memVoiceProfileRepo{profiles: map[string]*domain.VoiceProfile{}, companions: companions}
}

func (r *memVoiceProfileRepo) owned(userID string, p *domain.VoiceProfile) bool {
	c, ok := r.companions.companions[p.CompanionID]
	return ok && c.UserID == userID
}

func (r *memVoiceProfileRepo) Create(_ context.Context, p *domain.VoiceProfile) error {
	if p.ID == "" {
		r.next++
		p.ID = fmt.Sprintf("voice-%d", r.next)
	}
	r.profiles[p.ID] = p
	return nil
}

func (r *memVoiceProfileRepo) FindByID(_ context.Context, userID, id string) (*domain.VoiceProfile, error) {
	p, ok := r.profiles[id]
	if !ok || !r.owned(userID, p) {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *memVoiceProfileRepo) FindActiveByCompanion(_ context.Context, companionID string) (*domain.VoiceProfile, error) {
	for _, p := range r.profiles {
		if p.CompanionID == companionID && p.Status == domain.VoiceProfileActive {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memVoiceProfileRepo) List(_ context.Context, userID, companionID string) ([]domain.VoiceProfile, error) {
	var out []domain.VoiceProfile
	for _, p := range r.profiles {
		if !r.owned(userID, p) {
			continue
		}
		if companionID != "" && p.CompanionID != companionID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *memVoiceProfileRepo) Update(_ context.Context, p *domain.VoiceProfile) error {
	r.profiles[p.ID] = p
	return nil
}

func (r *memVoiceProfileRepo) DeactivateOthers(_ context.Context, companionID, keepID string) error {
	for _, p := range r.profiles {
		if p.CompanionID == companionID && p.ID != keepID && p.Status == domain.VoiceProfileActive {
			p.Status = domain.VoiceProfileInactive
		}
	}
	return nil
}

type memConversationRepo struct {
	conversations map[string]*domain.Conversation
	next          int
}

func newMemConversationRepo() *memConversationRepo {
	return &memConversationRepo{conversations: map[string]*domain.Conversation{}}
}

func (r *memConversationRepo) Create(_ context.Context, c *domain.Conversation) error {
	if c.ID == "" {
		r.next++
		c.ID = fmt.Sprintf("conversation-%d", r.next)
	}
	r.conversations[c.ID] = c
	return nil
}

func (r *memConversationRepo) FindByID(_ context.Context, userID, id string) (*domain.Conversation, error) {
	c, ok := r.conversations[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *memConversationRepo) List(_ context.Context, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	for _, c := range r.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memConversationRepo) Update(_ context.Context, c *domain.Conversation) error {
	r.conversations[c.ID] = c
	return nil
}

func (r *memConversationRepo) Delete(_ context.Context, userID, id string) error {
	c, ok := r.conversations[id]
	if !ok || c.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.conversations, id)
	return nil
}

type memMessageRepo struct {
	messages []*domain.Message
	next     int
	failNext bool
}

func (r *memMessageRepo) Create(_ context.Context, m *domain.Message) error {
	if r.failNext {
		r.failNext = false
		return fmt.Errorf("store unavailable")
	}
	if m.ID == "" {
		r.next++
		m.ID = fmt.Sprintf("message-%d", r.next)
	}
	m.CreatedAt = time.Now().UTC()
	r.messages = append(r.messages, m)
	return nil
}

func (r *memMessageRepo) FindByID(_ context.Context, _, id string) (*domain.Message, error) {
	for _, m := range r.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memMessageRepo) List(_ context.Context, conversationID string, page, perPage int) ([]domain.Message, error) {
	var all []domain.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			all = append(all, *m)
		}
	}
	start := (page - 1) * perPage
	if start >= len(all) {
		return nil, nil
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memMessageRepo) Count(_ context.Context, conversationID string) (int64, error) {
	var n int64
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			n++
		}
	}
	return n, nil
}

func (r *memMessageRepo) Delete(_ context.Context, _, id string) error {
	for i, m := range r.messages {
		if m.ID == id {
			r.messages = append(r.messages[:i], r.messages[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type memDeviceRepo struct {
	devices map[string]*domain.Device
	next    int
}

func newMemDeviceRepo() *memDeviceRepo {
	return &memDeviceRepo{devices: map[string]*domain.Device{}}
}

func (r *memDeviceRepo) Create(_ context.Context, d *domain.Device) error {
	if d.ID == "" {
		r.next++
		d.ID = fmt.Sprintf("device-%d", r.next)
	}
	r.devices[d.ID] = d
	return nil
}

func (r *memDeviceRepo) FindByID(_ context.Context, userID, id string) (*domain.Device, error) {
	d, ok := r.devices[id]
	if !ok || d.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

func (r *memDeviceRepo) FindBySerial(_ context.Context, serial string) (*domain.Device, error) {
	for _, d := range r.devices {
		if d.SerialNumber == serial {
			return d, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memDeviceRepo) List(_ context.Context, userID, status string, page, perPage int) ([]domain.Device, error) {
	var out []domain.Device
	for _, d := range r.devices {
		if d.UserID != userID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (r *memDeviceRepo) Update(_ context.Context, d *domain.Device) error {
	r.devices[d.ID] = d
	return nil
}

func (r *memDeviceRepo) Delete(_ context.Context, userID, id string) error {
	d, ok := r.devices[id]
	if !ok || d.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.devices, id)
	return nil
}

type memSessionRepo struct {
	sessions map[string]*domain.StreamingSession
	next     int
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[string]*domain.StreamingSession{}}
}

func (r *memSessionRepo) Create(_ context.Context, s *domain.StreamingSession) error {
	if s.ID == "" {
		r.next++
		s.ID = fmt.Sprintf("session-%d", r.next)
	}
	r.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) FindByID(_ context.Context, userID, id string) (*domain.StreamingSession, error) {
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *memSessionRepo) FindActiveByDevice(_ context.Context, deviceID string) (*domain.StreamingSession, error) {
	for _, s := range r.sessions {
		if s.DeviceID == deviceID && s.Status == domain.SessionStatusActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memSessionRepo) List(_ context.Context, userID, status string, page, perPage int) ([]domain.StreamingSession, error) {
	var out []domain.StreamingSession
	for _, s := range r.sessions {
		if s.UserID != userID {
			continue
		}
		if status != "" && s.Status != status {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSessionRepo) Update(_ context.Context, s *domain.StreamingSession) error {
	r.sessions[s.ID] = s
	return nil
}

func (r *memSessionRepo) Delete(_ context.Context, userID, id string) error {
	s, ok := r.sessions[id]
	if !ok || s.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.sessions, id)
	return nil
}

type memSubscriptionRepo struct {
	subscriptions map[string]*domain.Subscription
	next          int
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{subscriptions: map[string]*domain.Subscription{}}
}

func (r *memSubscriptionRepo) Create(_ context.Context, s *domain.Subscription) error {
	if s.ID == "" {
		r.next++
		s.ID = fmt.Sprintf("subscription-%d", r.next)
	}
	r.subscriptions[s.ID] = s
	return nil
}

func (r *memSubscriptionRepo) FindByID(_ context.Context, userID, id string) (*domain.Subscription, error) {
	s, ok := r.subscriptions[id]
	if !ok || s.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *memSubscriptionRepo) List(_ context.Context, userID string) ([]domain.Subscription, error) {
	var out []domain.Subscription
	for _, s := range r.subscriptions {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSubscriptionRepo) Update(_ context.Context, s *domain.Subscription) error {
	r.subscriptions[s.ID] = s
	return nil
}

func (r *memSubscriptionRepo) Delete(_ context.Context, userID, id string) error {
	s, ok := r.subscriptions[id]
	if !ok || s.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.subscriptions, id)
	return nil
}

type recordingPresence struct {
	touched   []string
	forgotten []string
	touchErr  error
}

func (p *recordingPresence) Touch(_ context.Context, deviceID string) error {
	p.touched = append(p.touched, deviceID)
	return p.touchErr
}

func (p *recordingPresence) Forget(_ context.Context, deviceID string) error {
	p.forgotten = append(p.forgotten, deviceID)
	return nil
}

type stubEngine struct {
	reply string
	err   error
	calls int
}

func (e *stubEngine) GenerateReply(_ context.Context, _, _, _ string) (string, error) {
	e.calls++
	return e.reply, e.err
}
