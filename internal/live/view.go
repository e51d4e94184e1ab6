package live

import (
	"math"
	"time"

	"checkin/internal/model"
)

// Phase is where the active session stands against its goal
type Phase string

const (
	PhaseInactive    Phase = "inactive"
	PhaseCollecting  Phase = "collecting"
	PhaseGoalReached Phase = "goal_reached"
)

// SessionState is the session_state payload
type SessionState struct {
	Active          bool       `json:"active"`
	SessionID       string     `json:"sessionId,omitempty"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	Required        int        `json:"required"`
	Joined          int        `json:"joined"`
	Remaining       int        `json:"remaining"`
	ProgressPercent int        `json:"progressPercent"`
	// ProgressBar is ProgressPercent clamped to 0..100 for rendering
	ProgressBar int `json:"progressBar"`
}

// ParticipantRow is one entry of the live participant list
type ParticipantRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	JoinedAt  time.Time `json:"joinedAt"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

// ParticipantsState is the participants payload
type ParticipantsState struct {
	SessionID    string           `json:"sessionId,omitempty"`
	Count        int              `json:"count"`
	Required     int              `json:"required"`
	Phase        Phase            `json:"phase"`
	Participants []ParticipantRow `json:"participants"`
}

// HistoryRow is one read-only row of the admin session history
type HistoryRow struct {
	SessionID string              `json:"sessionId"`
	StartTime time.Time           `json:"startTime"`
	EndTime   *time.Time          `json:"endTime,omitempty"`
	Required  int                 `json:"required"`
	Joined    int                 `json:"joined"`
	Status    model.SessionStatus `json:"status"`
}

// AuthState is the auth_state payload sent to admin viewers
type AuthState struct {
	SignedIn  bool       `json:"signedIn"`
	Email     string     `json:"email,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// ErrorPayload is the error payload
type ErrorPayload struct {
	Source  MessageType `json:"source"`
	Message string      `json:"message"`
}

// ProgressPercent is round(100 * joined / required). It is not capped, so
// an oversubscribed session reports more than 100.
func ProgressPercent(joined, required int) int {
	if required <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(joined) / float64(required)))
}

// PhaseFor reports collecting until count reaches required
func PhaseFor(count, required int) Phase {
	if count >= required {
		return PhaseGoalReached
	}
	return PhaseCollecting
}

// DeriveSessionState maps the active session, or nil, to its live state
func DeriveSessionState(s *model.Session) SessionState {
	if s == nil || !s.IsActive {
		return SessionState{}
	}
	started := s.StartTime
	progress := ProgressPercent(s.JoinedContacts, s.RequiredContacts)
	return SessionState{
		Active:          true,
		SessionID:       s.ID,
		StartedAt:       &started,
		Required:        s.RequiredContacts,
		Joined:          s.JoinedContacts,
		Remaining:       s.Remaining(),
		ProgressPercent: progress,
		ProgressBar:     min(max(progress, 0), 100),
	}
}

// DeriveParticipantsState builds the participant list for a role. Attendee
// rows never carry the IP address.
func DeriveParticipantsState(s *model.Session, participants []*model.Participant, role Role) ParticipantsState {
	if s == nil {
		return ParticipantsState{Phase: PhaseInactive, Participants: []ParticipantRow{}}
	}

	rows := make([]ParticipantRow, 0, len(participants))
	for _, p := range participants {
		row := ParticipantRow{
			ID:       p.ID,
			Name:     p.Name,
			Phone:    p.Phone,
			JoinedAt: p.JoinedAt,
		}
		if role == RoleAdmin {
			row.IPAddress = p.IPAddress
		}
		rows = append(rows, row)
	}

	return ParticipantsState{
		SessionID:    s.ID,
		Count:        len(rows),
		Required:     s.RequiredContacts,
		Phase:        PhaseFor(len(rows), s.RequiredContacts),
		Participants: rows,
	}
}

// DeriveHistory maps sessions to history rows, keeping their order
func DeriveHistory(sessions []*model.Session) []HistoryRow {
	rows := make([]HistoryRow, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, HistoryRow{
			SessionID: s.ID,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Required:  s.RequiredContacts,
			Joined:    s.JoinedContacts,
			Status:    s.Status(),
		})
	}
	return rows
}
