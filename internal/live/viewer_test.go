package live

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"checkin/internal/model"
)

type fakeSource struct {
	mu           sync.Mutex
	active       *model.Session
	participants map[string][]*model.Participant
	history      []*model.Session
	failActive   bool
}

func (s *fakeSource) ActiveSession(ctx context.Context) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failActive {
		return nil, errors.New("store unavailable")
	}
	if s.active == nil {
		return nil, nil
	}
	cp := *s.active
	return &cp, nil
}

func (s *fakeSource) Participants(ctx context.Context, sessionID string) ([]*model.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.Participant(nil), s.participants[sessionID]...), nil
}

func (s *fakeSource) RecentSessions(ctx context.Context, limit int) ([]*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Session, 0, limit)
	for _, h := range s.history {
		if len(out) == limit {
			break
		}
		cp := *h
		out = append(out, &cp)
	}
	return out, nil
}

func (s *fakeSource) start(id string, required int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		s.active.IsActive = false
	}
	s.active = &model.Session{ID: id, RequiredContacts: required, IsActive: true, StartTime: time.Now()}
	s.history = append([]*model.Session{s.active}, s.history...)
}

func (s *fakeSource) join(sessionID, name, phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.Participant{ID: phone, SessionID: sessionID, Name: name, Phone: phone, IPAddress: "203.0.113.9"}
	if s.participants == nil {
		s.participants = make(map[string][]*model.Participant)
	}
	s.participants[sessionID] = append([]*model.Participant{p}, s.participants[sessionID]...)
	if s.active != nil && s.active.ID == sessionID {
		s.active.JoinedContacts++
	}
}

type recordedMessage struct {
	Type    MessageType
	Payload interface{}
}

type recordingSink struct {
	mu   sync.Mutex
	msgs []recordedMessage
}

func (s *recordingSink) Send(msgType MessageType, payload interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, recordedMessage{Type: msgType, Payload: payload})
	return nil
}

func (s *recordingSink) count(msgType MessageType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.msgs {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

// waitFor blocks until a message of msgType satisfies match
func (s *recordingSink) waitFor(t *testing.T, msgType MessageType, match func(interface{}) bool) interface{} {
	t.Helper()
	deadline := time.Now().Add(waitTimeout)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		for _, m := range s.msgs {
			if m.Type == msgType && match(m.Payload) {
				s.mu.Unlock()
				return m.Payload
			}
		}
		s.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msgType)
	return nil
}

type fakeTokens struct {
	mu      sync.Mutex
	revoked bool
}

func (f *fakeTokens) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked, nil
}

func runViewer(t *testing.T, v *Viewer) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(waitTimeout):
		}
	})
	return cancel, done
}

func sessionIs(id string) func(interface{}) bool {
	return func(p interface{}) bool {
		st, ok := p.(SessionState)
		return ok && st.Active && st.SessionID == id
	}
}

func participantsOf(id string, count int) func(interface{}) bool {
	return func(p interface{}) bool {
		st, ok := p.(ParticipantsState)
		return ok && st.SessionID == id && st.Count == count
	}
}

func TestAttendeeViewerFollowsActiveSession(t *testing.T) {
	hub := NewHub()
	src := &fakeSource{}
	sink := &recordingSink{}
	runViewer(t, NewViewer(hub, src, sink, ViewerConfig{Role: RoleAttendee}))

	sink.waitFor(t, MsgSessionState, func(p interface{}) bool { return !p.(SessionState).Active })
	sink.waitFor(t, MsgParticipants, func(p interface{}) bool { return p.(ParticipantsState).Phase == PhaseInactive })

	src.start("s1", 1)
	hub.Notify(model.TopicSessions)
	sink.waitFor(t, MsgSessionState, sessionIs("s1"))
	sink.waitFor(t, MsgParticipants, participantsOf("s1", 0))

	src.join("s1", "Ana", "555")
	hub.Notify(model.ParticipantsTopic("s1"))
	hub.Notify(model.TopicSessions)

	got := sink.waitFor(t, MsgParticipants, participantsOf("s1", 1)).(ParticipantsState)
	if got.Phase != PhaseGoalReached {
		t.Fatalf("expected goal reached, got %s", got.Phase)
	}
	if got.Participants[0].IPAddress != "" {
		t.Fatalf("attendee view must not include ip")
	}
	sink.waitFor(t, MsgSessionState, func(p interface{}) bool {
		st := p.(SessionState)
		return st.SessionID == "s1" && st.Joined == 1 && st.ProgressPercent == 100
	})

	if sink.count(MsgHistory) != 0 || sink.count(MsgAuthState) != 0 {
		t.Fatalf("attendee must not receive admin messages")
	}
}

func TestViewerDropsOldParticipantStreamOnSessionChange(t *testing.T) {
	hub := NewHub()
	src := &fakeSource{}
	src.start("s1", 5)
	sink := &recordingSink{}
	v := NewViewer(hub, src, sink, ViewerConfig{Role: RoleAttendee})
	runViewer(t, v)

	sink.waitFor(t, MsgParticipants, participantsOf("s1", 0))

	src.start("s2", 5)
	hub.Notify(model.TopicSessions)
	sink.waitFor(t, MsgSessionState, sessionIs("s2"))
	sink.waitFor(t, MsgParticipants, participantsOf("s2", 0))

	before := sink.count(MsgParticipants)
	src.join("s1", "Late", "999")
	hub.Notify(model.ParticipantsTopic("s1"))
	settle(hub)
	time.Sleep(50 * time.Millisecond)

	if after := sink.count(MsgParticipants); after != before {
		t.Fatalf("old session list still streaming: %d -> %d messages", before, after)
	}
}

func TestAdminViewerReceivesHistoryAndSignsOut(t *testing.T) {
	hub := NewHub()
	src := &fakeSource{}
	for i := 1; i <= 12; i++ {
		src.start(fmt.Sprintf("s%d", i), 3)
	}
	tokens := &fakeTokens{}
	sink := &recordingSink{}
	v := NewViewer(hub, src, sink, ViewerConfig{
		Role:        RoleAdmin,
		Credentials: &Credentials{TokenID: "jti-1", Email: "admin@example.com", ExpiresAt: time.Now().Add(time.Hour)},
		Tokens:      tokens,
	})
	_, done := runViewer(t, v)

	rows := sink.waitFor(t, MsgHistory, func(p interface{}) bool { return len(p.([]HistoryRow)) > 0 }).([]HistoryRow)
	if len(rows) != defaultHistoryLimit || rows[0].SessionID != "s12" {
		t.Fatalf("expected newest %d sessions, got %d starting %s", defaultHistoryLimit, len(rows), rows[0].SessionID)
	}
	sink.waitFor(t, MsgAuthState, func(p interface{}) bool { return p.(AuthState).SignedIn })

	src.join("s12", "Ana", "555")
	hub.Notify(model.ParticipantsTopic("s12"))
	admin := sink.waitFor(t, MsgParticipants, participantsOf("s12", 1)).(ParticipantsState)
	if admin.Participants[0].IPAddress == "" {
		t.Fatalf("admin view should include ip")
	}

	tokens.mu.Lock()
	tokens.revoked = true
	tokens.mu.Unlock()
	hub.Notify(model.AuthTopic("jti-1"))

	select {
	case err := <-done:
		if !errors.Is(err, ErrSignedOut) {
			t.Fatalf("expected ErrSignedOut, got %v", err)
		}
	case <-time.After(waitTimeout):
		t.Fatalf("viewer did not stop after sign out")
	}
	sink.waitFor(t, MsgAuthState, func(p interface{}) bool { return !p.(AuthState).SignedIn })
}

func TestAdminViewerStopsAtTokenExpiry(t *testing.T) {
	hub := NewHub()
	v := NewViewer(hub, &fakeSource{}, &recordingSink{}, ViewerConfig{
		Role:        RoleAdmin,
		Credentials: &Credentials{TokenID: "jti-2", ExpiresAt: time.Now().Add(50 * time.Millisecond)},
		Tokens:      &fakeTokens{},
	})
	_, done := runViewer(t, v)

	select {
	case err := <-done:
		if !errors.Is(err, ErrSignedOut) {
			t.Fatalf("expected ErrSignedOut, got %v", err)
		}
	case <-time.After(waitTimeout):
		t.Fatalf("viewer outlived its token")
	}
}

func TestViewerReportsQueryErrorAndRecovers(t *testing.T) {
	hub := NewHub()
	src := &fakeSource{failActive: true}
	sink := &recordingSink{}
	runViewer(t, NewViewer(hub, src, sink, ViewerConfig{}))

	sink.waitFor(t, MsgError, func(p interface{}) bool { return p.(ErrorPayload).Source == MsgSessionState })

	src.mu.Lock()
	src.failActive = false
	src.mu.Unlock()
	src.start("s1", 2)
	hub.Notify(model.TopicSessions)
	sink.waitFor(t, MsgSessionState, sessionIs("s1"))
}

func TestAdminViewerRequiresCredentials(t *testing.T) {
	v := NewViewer(NewHub(), &fakeSource{}, &recordingSink{}, ViewerConfig{Role: RoleAdmin})
	if err := v.Run(context.Background()); err == nil {
		t.Fatalf("expected error without credentials")
	}
}
