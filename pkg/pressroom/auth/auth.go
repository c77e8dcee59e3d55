// Package auth implements the single-identity authentication gate: a static
// administrator credential pair exchanged for a signed, time-limited JWT.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/go-chi/jwtauth"
)

// RoleAdmin is the only role the gate issues. There is no user registry and
// no per-user role model.
const RoleAdmin = "admin"

// DefaultTokenTTL is the credential lifetime when none is configured.
const DefaultTokenTTL = 8 * time.Hour

var (
	// ErrMissingCredentials indicates email or password was not supplied
	ErrMissingCredentials = errors.New("email and password required")

	// ErrInvalidCredentials indicates the submitted pair does not match the
	// configured administrator identity
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Config holds the static administrator identity and signing material.
type Config struct {
	AdminEmail    string
	AdminPassword string
	JWTSecret     string
	TokenTTL      time.Duration
}

// Service issues and verifies admin credentials.
type Service struct {
	cfg       Config
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

// New creates an authentication service from the given config.
func New(cfg Config) *Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	return &Service{
		cfg:       cfg,
		tokenAuth: jwtauth.New("HS256", []byte(cfg.JWTSecret), nil),
		now:       time.Now,
	}
}

// Login validates the submitted credential pair against the configured
// administrator identity and returns a signed token on success.
func (s *Service) Login(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.AdminEmail)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !emailOK || !passwordOK {
		return "", ErrInvalidCredentials
	}

	now := s.now()
	claims := map[string]interface{}{
		"email": email,
		"role":  RoleAdmin,
	}
	jwtauth.SetIssuedAt(claims, now)
	jwtauth.SetExpiry(claims, now.Add(s.cfg.TokenTTL))

	_, tokenString, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// TokenAuth exposes the underlying verifier for middleware wiring.
func (s *Service) TokenAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}
