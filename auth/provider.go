package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/mww/washed_up/model"
)

var (
	ErrBadCredentials     = errors.New("incorrect email or password")
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingName        = errors.New("name is required")
	ErrAccountExists      = errors.New("an account already exists for that email")
	ErrSignUpUnsupported  = errors.New("sign up is not supported by this identity provider")
	ErrProfileNotFound    = errors.New("profile not found")
)

// Provider is an identity provider. It only knows who someone is, never what they may do.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*model.Identity, error)
	SignUp(ctx context.Context, email, password, name string) (*model.Identity, error)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
