package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/itbasis/go-clock"
	"github.com/mww/washed_up/model"
)

const issuer = "washed_up"

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session expired")
)

// claims is the body of the session token. Admin is copied from the stored profile when
// the token is issued and is never read from anything the client sends.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// Session is a verified session token.
type Session struct {
	Identity  model.Identity
	Admin     bool
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Admin
}

// Sessions issues and verifies HS256 signed session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewSessions(secret string, ttl time.Duration, clock clock.Clock) (*Sessions, error) {
	if len(secret) < 16 {
		return nil, errors.New("session secret must be at least 16 characters")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got: %v", ttl)
	}
	return &Sessions{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
	}, nil
}

func (s *Sessions) TTL() time.Duration {
	return s.ttl
}

func (s *Sessions) Issue(id model.Identity, admin bool) (string, error) {
	now := s.clock.Now()
	c := &claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: id.Email,
		Name:  id.Name,
		Admin: admin,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing session token: %w", err)
	}
	return token, nil
}

func (s *Sessions) Verify(token string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.Subject == "" {
		return nil, ErrInvalidSession
	}

	return &Session{
		Identity: model.Identity{
			ID:    c.Subject,
			Email: c.Email,
			Name:  c.Name,
		},
		Admin:     c.Admin,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying the session.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session stored by WithSession, or nil for anonymous requests.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}
