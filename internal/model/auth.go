package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Admin is an operator allowed to start and end sessions
type Admin struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// AdminClaims are JWT claims for admin authentication.
// Subject carries the admin ID and ID the revocable token id.
type AdminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the signed-in admin as seen by services
type Identity struct {
	AdminID string `json:"adminId"`
	Email   string `json:"email"`
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token     string    `json:"token"`
	AdminID   string    `json:"adminId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}
