package service

import (
	"checkin/internal/iplookup"
	"checkin/internal/metrics"
	"checkin/internal/model"
	"checkin/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	ErrPhoneRegistered  = fmt.Errorf("%w: this phone number is already registered in this session", ErrDuplicate)
	ErrSessionNotActive = fmt.Errorf("%w: session is not accepting registrations", ErrState)
)

// RegistrarService records attendee registrations
type RegistrarService struct {
	sessionRepo     repository.SessionRepo
	participantRepo repository.ParticipantRepo
	resolver        iplookup.Resolver
	publisher       Publisher
}

// NewRegistrarService creates a new registrar service
func NewRegistrarService(
	sessionRepo repository.SessionRepo,
	participantRepo repository.ParticipantRepo,
	resolver iplookup.Resolver,
) *RegistrarService {
	return &RegistrarService{
		sessionRepo:     sessionRepo,
		participantRepo: participantRepo,
		resolver:        resolver,
	}
}

// SetPublisher sets the publisher for live updates
func (s *RegistrarService) SetPublisher(p Publisher) {
	s.publisher = p
}

// Register adds an attendee to the session and bumps its joined counter
func (s *RegistrarService) Register(ctx context.Context, sessionID, name, phone string) (*model.Participant, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, fmt.Errorf("%w: name and phone are required", ErrValidation)
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, s.failed(fmt.Errorf("failed to get session: %w", err))
	}
	if session == nil || !session.IsActive {
		metrics.Registrations.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, ErrSessionNotActive
	}

	exists, err := s.participantRepo.ExistsByPhone(ctx, sessionID, phone)
	if err != nil {
		return nil, s.failed(fmt.Errorf("failed to check phone: %w", err))
	}
	if exists {
		metrics.Registrations.WithLabelValues(metrics.ResultDuplicate).Inc()
		return nil, ErrPhoneRegistered
	}

	participant := &model.Participant{
		SessionID: sessionID,
		Name:      name,
		Phone:     phone,
		IPAddress: s.lookupIP(ctx),
	}

	if err := s.participantRepo.Create(ctx, participant); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			metrics.Registrations.WithLabelValues(metrics.ResultDuplicate).Inc()
			return nil, ErrPhoneRegistered
		}
		return nil, s.failed(fmt.Errorf("failed to save participant: %w", err))
	}

	if err := s.sessionRepo.IncrementJoined(ctx, sessionID, 1); err != nil {
		log.Printf("[registrar] participant %s saved but session %s counter not incremented: %v", participant.ID, sessionID, err)
		notify(ctx, s.publisher, model.ParticipantsTopic(sessionID))
		return nil, s.failed(fmt.Errorf("failed to update session count: %w", err))
	}

	metrics.Registrations.WithLabelValues(metrics.ResultAccepted).Inc()
	notify(ctx, s.publisher, model.ParticipantsTopic(sessionID), model.TopicSessions)

	return participant, nil
}

func (s *RegistrarService) lookupIP(ctx context.Context) string {
	if s.resolver == nil {
		return model.UnknownIP
	}
	res := s.resolver.Lookup(ctx)
	if res.Err != nil {
		metrics.IPLookupFailures.Inc()
		log.Printf("[registrar] ip lookup failed: %v", res.Err)
	}
	return res.OrDefault(model.UnknownIP)
}

func (s *RegistrarService) failed(err error) error {
	metrics.Registrations.WithLabelValues(metrics.ResultError).Inc()
	return err
}
