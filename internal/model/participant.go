package model

import "time"

// UnknownIP is stored when the client address cannot be resolved
const UnknownIP = "unknown"

// Participant is one attendee registration within a session
type Participant struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	SessionID string    `json:"sessionId" bson:"sessionId"`
	Name      string    `json:"name" bson:"name"`
	Phone     string    `json:"phone" bson:"phone"` // unique per session
	JoinedAt  time.Time `json:"joinedAt" bson:"joinedAt"`
	IPAddress string    `json:"ipAddress" bson:"ipAddress"`
}

// RegisterRequest is the request body for the public registration form
type RegisterRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
