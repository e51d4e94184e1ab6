package model

import "time"

type SessionStatus string

const (
	SessionActive SessionStatus = "active"
	SessionEnded  SessionStatus = "ended"
)

// Session is one check-in event run with a target headcount.
// At most one session has IsActive set at any time.
type Session struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	StartTime        time.Time  `json:"startTime" bson:"startTime"`
	EndTime          *time.Time `json:"endTime,omitempty" bson:"endTime,omitempty"`
	RequiredContacts int        `json:"requiredContacts" bson:"requiredContacts"`
	JoinedContacts   int        `json:"joinedContacts" bson:"joinedContacts"`
	IsActive         bool       `json:"isActive" bson:"isActive"`
	CreatedBy        string     `json:"createdBy" bson:"createdBy"`
	CreatedByEmail   string     `json:"createdByEmail" bson:"createdByEmail"`
}

// Status reports the lifecycle state. Ended is terminal.
func (s *Session) Status() SessionStatus {
	if s.IsActive {
		return SessionActive
	}
	return SessionEnded
}

// Remaining returns how many contacts are still needed. It goes negative
// once the target is exceeded.
func (s *Session) Remaining() int {
	return s.RequiredContacts - s.JoinedContacts
}

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	RequiredContacts int `json:"requiredContacts"`
}

// EndSessionRequest is the request body for ending the active session
type EndSessionRequest struct {
	SessionID string `json:"sessionId"`
}
