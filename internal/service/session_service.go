package service

import (
	"checkin/internal/metrics"
	"checkin/internal/model"
	"checkin/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
)

var (
	ErrSessionActive   = fmt.Errorf("%w: a session is already active", ErrConflict)
	ErrNoActiveSession = fmt.Errorf("%w: no active session", ErrState)
	ErrStaleSession    = fmt.Errorf("%w: session is not the active session", ErrState)
)

// SessionService handles the session lifecycle: Active -> Ended, once
type SessionService struct {
	sessionRepo repository.SessionRepo
	publisher   Publisher
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo repository.SessionRepo) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
	}
}

// SetPublisher sets the publisher for live updates
func (s *SessionService) SetPublisher(p Publisher) {
	s.publisher = p
}

// StartSession opens a new session collecting requiredContacts contacts
func (s *SessionService) StartSession(ctx context.Context, admin model.Identity, requiredContacts int) (*model.Session, error) {
	if requiredContacts < 1 {
		return nil, fmt.Errorf("%w: required contacts must be a positive integer", ErrValidation)
	}

	active, err := s.sessionRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}
	if active != nil {
		return nil, ErrSessionActive
	}

	session := &model.Session{
		RequiredContacts: requiredContacts,
		JoinedContacts:   0,
		IsActive:         true,
		CreatedBy:        admin.AdminID,
		CreatedByEmail:   admin.Email,
	}

	// The unique index on active sessions closes the race between the check and the insert
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSessionActive
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[lifecycle] session %s started by %s (required=%d)", session.ID, admin.Email, requiredContacts)
	metrics.SessionEvents.WithLabelValues("started").Inc()
	notify(ctx, s.publisher, model.TopicSessions)

	return session, nil
}

// EndSession ends the active session. sessionID is the reference the
// caller resolved from live state; empty means "whatever is active".
func (s *SessionService) EndSession(ctx context.Context, sessionID string) (*model.Session, error) {
	active, err := s.sessionRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	if active == nil {
		return nil, ErrNoActiveSession
	}
	if sessionID != "" && sessionID != active.ID {
		return nil, ErrStaleSession
	}

	ended, err := s.sessionRepo.End(ctx, active.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}
	if ended == nil {
		// Someone else ended it between the lookup and the update
		return nil, ErrNoActiveSession
	}

	log.Printf("[lifecycle] session %s ended (joined=%d/%d)", ended.ID, ended.JoinedContacts, ended.RequiredContacts)
	metrics.SessionEvents.WithLabelValues("ended").Inc()
	notify(ctx, s.publisher, model.TopicSessions)

	return ended, nil
}
