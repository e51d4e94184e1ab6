package live

import (
	"context"
	"errors"
	"log"
	"time"

	"checkin/internal/metrics"
	"checkin/internal/model"
)

// Role decides what a viewer is allowed to see
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAttendee Role = "attendee"
)

// MessageType names a live message
type MessageType string

const (
	MsgSessionState MessageType = "session_state"
	MsgParticipants MessageType = "participants"
	MsgHistory      MessageType = "history"
	MsgAuthState    MessageType = "auth_state"
	MsgError        MessageType = "error"
)

const defaultHistoryLimit = 10

// ErrSignedOut ends an admin viewer whose token was revoked or expired
var ErrSignedOut = errors.New("signed out")

// Source runs the queries behind the live streams
type Source interface {
	ActiveSession(ctx context.Context) (*model.Session, error)
	Participants(ctx context.Context, sessionID string) ([]*model.Participant, error)
	RecentSessions(ctx context.Context, limit int) ([]*model.Session, error)
}

// Sink delivers messages to the connected client
type Sink interface {
	Send(msgType MessageType, payload interface{}) error
}

// TokenChecker reports token revocation
type TokenChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Credentials identify the token an admin viewer connected with
type Credentials struct {
	TokenID   string
	Email     string
	ExpiresAt time.Time
}

// ViewerConfig configures a viewer. Admin viewers need Credentials and Tokens.
type ViewerConfig struct {
	Role         Role
	HistoryLimit int
	Credentials  *Credentials
	Tokens       TokenChecker
}

// Viewer is the state of one connected client: its role and the streams it
// holds. Run is its only goroutine.
type Viewer struct {
	hub    *Hub
	source Source
	sink   Sink
	cfg    ViewerConfig

	session      *model.Session
	participants *Stream[[]*model.Participant]
}

// NewViewer creates a viewer
func NewViewer(hub *Hub, source Source, sink Sink, cfg ViewerConfig) *Viewer {
	if cfg.Role == "" {
		cfg.Role = RoleAttendee
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &Viewer{
		hub:    hub,
		source: source,
		sink:   sink,
		cfg:    cfg,
	}
}

func (v *Viewer) isAdmin() bool {
	return v.cfg.Role == RoleAdmin
}

// Run pushes snapshots until ctx is done, the sink fails, or an admin
// viewer is signed out. Every stream is cancelled before Run returns.
func (v *Viewer) Run(ctx context.Context) error {
	if v.isAdmin() && (v.cfg.Credentials == nil || v.cfg.Tokens == nil) {
		return errors.New("admin viewer requires credentials")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gauge := metrics.LiveViewers.WithLabelValues(string(v.cfg.Role))
	gauge.Inc()
	defer gauge.Dec()

	sessions := Watch(ctx, v.hub, model.TopicSessions, v.source.ActiveSession)
	defer sessions.Cancel()
	defer v.dropParticipants()

	var (
		historyC <-chan Event[[]*model.Session]
		authC    <-chan Event[AuthState]
		expired  <-chan time.Time
	)
	if v.isAdmin() {
		history := Watch(ctx, v.hub, model.TopicSessions, func(ctx context.Context) ([]*model.Session, error) {
			return v.source.RecentSessions(ctx, v.cfg.HistoryLimit)
		})
		defer history.Cancel()
		historyC = history.C

		auth := Watch(ctx, v.hub, model.AuthTopic(v.cfg.Credentials.TokenID), v.loadAuth)
		defer auth.Cancel()
		authC = auth.C

		timer := time.NewTimer(time.Until(v.cfg.Credentials.ExpiresAt))
		defer timer.Stop()
		expired = timer.C
	}

	for {
		var participantsC <-chan Event[[]*model.Participant]
		if v.participants != nil {
			participantsC = v.participants.C
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-sessions.C:
			if !ok {
				return ctx.Err()
			}
			if err := v.onSession(ctx, ev); err != nil {
				return err
			}

		case ev, ok := <-participantsC:
			if !ok {
				v.participants = nil
				continue
			}
			if err := v.onParticipants(ev); err != nil {
				return err
			}

		case ev, ok := <-historyC:
			if !ok {
				return ctx.Err()
			}
			if ev.Err != nil {
				if err := v.sendError(MsgHistory, ev.Err); err != nil {
					return err
				}
				continue
			}
			if err := v.send(MsgHistory, DeriveHistory(ev.Value)); err != nil {
				return err
			}

		case ev, ok := <-authC:
			if !ok {
				return ctx.Err()
			}
			if ev.Err != nil {
				if err := v.sendError(MsgAuthState, ev.Err); err != nil {
					return err
				}
				continue
			}
			if err := v.send(MsgAuthState, ev.Value); err != nil {
				return err
			}
			if !ev.Value.SignedIn {
				return ErrSignedOut
			}

		case <-expired:
			if err := v.send(MsgAuthState, AuthState{}); err != nil {
				return err
			}
			return ErrSignedOut
		}
	}
}

func (v *Viewer) onSession(ctx context.Context, ev Event[*model.Session]) error {
	if ev.Err != nil {
		return v.sendError(MsgSessionState, ev.Err)
	}

	next := ev.Value
	if next != nil && !next.IsActive {
		next = nil
	}

	// The old list must stop before the new one starts
	if v.session != nil && (next == nil || next.ID != v.session.ID) {
		v.dropParticipants()
	}
	v.session = next

	if err := v.send(MsgSessionState, DeriveSessionState(next)); err != nil {
		return err
	}

	if next == nil {
		return v.send(MsgParticipants, DeriveParticipantsState(nil, nil, v.cfg.Role))
	}
	if v.participants == nil {
		sessionID := next.ID
		v.participants = Watch(ctx, v.hub, model.ParticipantsTopic(sessionID), func(ctx context.Context) ([]*model.Participant, error) {
			return v.source.Participants(ctx, sessionID)
		})
	}
	return nil
}

func (v *Viewer) onParticipants(ev Event[[]*model.Participant]) error {
	if ev.Err != nil {
		return v.sendError(MsgParticipants, ev.Err)
	}
	if v.session == nil {
		return nil
	}
	return v.send(MsgParticipants, DeriveParticipantsState(v.session, ev.Value, v.cfg.Role))
}

func (v *Viewer) dropParticipants() {
	if v.participants != nil {
		v.participants.Cancel()
		v.participants = nil
	}
}

func (v *Viewer) loadAuth(ctx context.Context) (AuthState, error) {
	creds := v.cfg.Credentials
	revoked, err := v.cfg.Tokens.IsTokenRevoked(ctx, creds.TokenID)
	if err != nil {
		return AuthState{}, err
	}
	if revoked || !time.Now().Before(creds.ExpiresAt) {
		return AuthState{}, nil
	}
	expiresAt := creds.ExpiresAt
	return AuthState{SignedIn: true, Email: creds.Email, ExpiresAt: &expiresAt}, nil
}

func (v *Viewer) send(msgType MessageType, payload interface{}) error {
	if err := v.sink.Send(msgType, payload); err != nil {
		return err
	}
	metrics.SnapshotsPushed.WithLabelValues(string(msgType)).Inc()
	return nil
}

func (v *Viewer) sendError(source MessageType, err error) error {
	log.Printf("[live] %s query failed: %v", source, err)
	return v.sink.Send(MsgError, ErrorPayload{
		Source:  source,
		Message: "could not refresh, waiting for the next change",
	})
}
