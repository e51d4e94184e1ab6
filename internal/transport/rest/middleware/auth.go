package middleware

import (
	"checkin/internal/model"
	"checkin/internal/service"
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
)

type contextKey string

const (
	AdminIDKey    contextKey = "adminId"
	AdminEmailKey contextKey = "adminEmail"
	TokenKey      contextKey = "token"
)

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireAdmin validates the admin JWT from the Authorization header
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateToken(r.Context(), token)
		if err != nil {
			if !errors.Is(err, service.ErrAuth) {
				log.Printf("[auth] token check failed: %v", err)
				http.Error(w, `{"error":"something went wrong, please try again"}`, http.StatusInternalServerError)
				return
			}
			http.Error(w, `{"error":"invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), AdminIDKey, claims.Subject)
		ctx = context.WithValue(ctx, AdminEmailKey, claims.Email)
		ctx = context.WithValue(ctx, TokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the signed-in admin from context
func GetIdentity(ctx context.Context) model.Identity {
	id, _ := ctx.Value(AdminIDKey).(string)
	email, _ := ctx.Value(AdminEmailKey).(string)
	return model.Identity{AdminID: id, Email: email}
}

// GetToken extracts the raw bearer token from context
func GetToken(ctx context.Context) string {
	if v := ctx.Value(TokenKey); v != nil {
		return v.(string)
	}
	return ""
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
