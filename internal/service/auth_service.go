package service

import (
	"checkin/internal/cache"
	"checkin/internal/model"
	"checkin/internal/repository"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid email or password", ErrAuth)
	ErrInvalidToken       = fmt.Errorf("%w: invalid or expired token", ErrAuth)
)

const minPasswordLen = 8

// AuthService handles admin sign-in, sign-out and token validation
type AuthService struct {
	adminRepo  repository.AdminRepo
	tokenCache cache.TokenCache
	publisher  Publisher
	jwtSecret  []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(adminRepo repository.AdminRepo, tokenCache cache.TokenCache, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		tokenCache: tokenCache,
		jwtSecret:  []byte(secret),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// SetPublisher sets the publisher used to push auth state changes
func (s *AuthService) SetPublisher(p Publisher) {
	s.publisher = p
}

// SignIn checks credentials and returns a signed admin token
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	admin, err := s.adminRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := &model.AdminClaims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   admin.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:     tokenString,
		AdminID:   admin.ID,
		Email:     admin.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// SignOut revokes the token until its expiry and notifies live viewers
// holding it
func (s *AuthService) SignOut(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return err
	}

	ttl := claims.ExpiresAt.Time.Sub(s.now())
	if err := s.tokenCache.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	notify(ctx, s.publisher, model.AuthTopic(claims.ID))
	return nil
}

// ValidateToken parses an admin JWT and rejects revoked tokens
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*model.AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.AdminClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.tokenCache.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// IsTokenRevoked reports whether a token id was signed out
func (s *AuthService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.tokenCache.IsRevoked(ctx, tokenID)
}

// CreateAdmin hashes the password and creates or updates the admin account
func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*model.Admin, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	admin := &model.Admin{Email: email, PasswordHash: hash}
	if err := s.adminRepo.Upsert(ctx, admin); err != nil {
		return nil, fmt.Errorf("failed to save admin: %w", err)
	}
	return admin, nil
}

// HashPassword hashes a plaintext password using bcrypt
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password is too long", ErrValidation)
		}
		return "", err
	}
	return string(hash), nil
}

// IdentityFromClaims maps token claims to the acting admin
func IdentityFromClaims(claims *model.AdminClaims) model.Identity {
	return model.Identity{AdminID: claims.Subject, Email: claims.Email}
}
