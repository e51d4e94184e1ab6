package service

import (
	"checkin/internal/export"
	"checkin/internal/model"
	"checkin/internal/repository"
	"context"
	"fmt"
	"time"
)

var ErrGoalNotReached = fmt.Errorf("%w: contacts are available once the goal is reached", ErrState)

// ContactExport is a ready-to-write vCard download
type ContactExport struct {
	Filename string
	Contacts []export.Contact
}

// ContactService builds contact-card exports
type ContactService struct {
	sessionRepo     repository.SessionRepo
	participantRepo repository.ParticipantRepo
	filePrefix      string
	now             func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(sessionRepo repository.SessionRepo, participantRepo repository.ParticipantRepo, filePrefix string) *ContactService {
	return &ContactService{
		sessionRepo:     sessionRepo,
		participantRepo: participantRepo,
		filePrefix:      filePrefix,
		now:             time.Now,
	}
}

// ExportActive exports the active session for attendees, only once the
// participant count has reached the target
func (s *ContactService) ExportActive(ctx context.Context) (*ContactExport, error) {
	session, err := s.sessionRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	participants, err := s.participantRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	if len(participants) < session.RequiredContacts {
		return nil, ErrGoalNotReached
	}

	return s.build(participants), nil
}

// ExportSession exports any session for admins
func (s *ContactService) ExportSession(ctx context.Context, sessionID string) (*ContactExport, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}

	participants, err := s.participantRepo.ListBySession(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return s.build(participants), nil
}

func (s *ContactService) build(participants []*model.Participant) *ContactExport {
	contacts := make([]export.Contact, 0, len(participants))
	for _, p := range participants {
		contacts = append(contacts, export.Contact{Name: p.Name, Phone: p.Phone})
	}
	return &ContactExport{
		Filename: export.Filename(s.filePrefix, s.now()),
		Contacts: contacts,
	}
}
