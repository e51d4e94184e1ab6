package service

import (
	"checkin/internal/model"
	"checkin/internal/repository"
	"context"
)

// MaxHistoryLimit caps history queries
const MaxHistoryLimit = 50

// QueryService serves the read side: REST reads and live stream queries
type QueryService struct {
	sessionRepo     repository.SessionRepo
	participantRepo repository.ParticipantRepo
}

// NewQueryService creates a new query service
func NewQueryService(sessionRepo repository.SessionRepo, participantRepo repository.ParticipantRepo) *QueryService {
	return &QueryService{
		sessionRepo:     sessionRepo,
		participantRepo: participantRepo,
	}
}

// ActiveSession returns the active session or nil
func (s *QueryService) ActiveSession(ctx context.Context) (*model.Session, error) {
	return s.sessionRepo.FindActive(ctx)
}

// GetSession returns a session by ID or nil
func (s *QueryService) GetSession(ctx context.Context, id string) (*model.Session, error) {
	return s.sessionRepo.GetByID(ctx, id)
}

// RecentSessions returns sessions by start time, newest first
func (s *QueryService) RecentSessions(ctx context.Context, limit int) ([]*model.Session, error) {
	if limit <= 0 || limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.sessionRepo.ListRecent(ctx, limit)
}

// Participants returns a session's participants, newest first
func (s *QueryService) Participants(ctx context.Context, sessionID string) ([]*model.Participant, error) {
	return s.participantRepo.ListBySession(ctx, sessionID)
}
