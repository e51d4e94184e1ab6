package service

import (
	"checkin/internal/iplookup"
	"checkin/internal/model"
	"checkin/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// memSessionRepo mirrors the Mongo repo, including the single-active index
type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	nextID   int
	clock    time.Time
	incErr   error
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{
		sessions: make(map[string]*model.Session),
		clock:    time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memSessionRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Minute)
	return r.clock
}

func (r *memSessionRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memSessionRepo) Create(ctx context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session.IsActive {
		for _, s := range r.sessions {
			if s.IsActive {
				return repository.ErrDuplicateKey
			}
		}
	}
	r.nextID++
	session.ID = fmt.Sprintf("s%d", r.nextID)
	session.StartTime = r.tick()
	stored := *session
	r.sessions[session.ID] = &stored
	return nil
}

func (r *memSessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) FindActive(ctx context.Context) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.IsActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepo) End(ctx context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || !s.IsActive {
		return nil, nil
	}
	end := r.tick()
	s.IsActive = false
	s.EndTime = &end
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) IncrementJoined(ctx context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.incErr != nil {
		return r.incErr
	}
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("no documents")
	}
	s.JoinedContacts += delta
	return nil
}

func (r *memSessionRepo) ListRecent(ctx context.Context, limit int) ([]*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSessionRepo) snapshot() map[string]model.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]model.Session, len(r.sessions))
	for id, s := range r.sessions {
		out[id] = *s
	}
	return out
}

type memParticipantRepo struct {
	mu           sync.Mutex
	participants []*model.Participant
	clock        time.Time
	// skipExistsCheck simulates a racing insert that passed the pre-check
	skipExistsCheck bool
}

func newMemParticipantRepo() *memParticipantRepo {
	return &memParticipantRepo{clock: time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)}
}

func (r *memParticipantRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memParticipantRepo) Create(ctx context.Context, p *model.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participants {
		if existing.SessionID == p.SessionID && existing.Phone == p.Phone {
			return repository.ErrDuplicateKey
		}
	}
	r.clock = r.clock.Add(time.Second)
	p.ID = fmt.Sprintf("p%d", len(r.participants)+1)
	p.JoinedAt = r.clock
	cp := *p
	r.participants = append(r.participants, &cp)
	return nil
}

func (r *memParticipantRepo) ExistsByPhone(ctx context.Context, sessionID, phone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.skipExistsCheck {
		return false, nil
	}
	for _, p := range r.participants {
		if p.SessionID == sessionID && p.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *memParticipantRepo) ListBySession(ctx context.Context, sessionID string) ([]*model.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Participant{}
	for i := len(r.participants) - 1; i >= 0; i-- {
		if p := r.participants[i]; p.SessionID == sessionID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memAdminRepo struct {
	admins map[string]*model.Admin
}

func (r *memAdminRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *memAdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	a, ok := r.admins[strings.ToLower(email)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *memAdminRepo) Upsert(ctx context.Context, admin *model.Admin) error {
	if r.admins == nil {
		r.admins = make(map[string]*model.Admin)
	}
	admin.Email = strings.ToLower(admin.Email)
	if existing, ok := r.admins[admin.Email]; ok {
		existing.PasswordHash = admin.PasswordHash
		*admin = *existing
		return nil
	}
	admin.ID = fmt.Sprintf("a%d", len(r.admins)+1)
	cp := *admin
	r.admins[admin.Email] = &cp
	return nil
}

type memTokenCache struct {
	revoked map[string]time.Duration
}

func (c *memTokenCache) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if c.revoked == nil {
		c.revoked = make(map[string]time.Duration)
	}
	c.revoked[tokenID] = ttl
	return nil
}

func (c *memTokenCache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, ok := c.revoked[tokenID]
	return ok, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

type stubResolver struct {
	result iplookup.Result
}

func (s stubResolver) Lookup(ctx context.Context) iplookup.Result {
	return s.result
}

var testAdmin = model.Identity{AdminID: "a1", Email: "admin@example.com"}
