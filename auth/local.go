package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"golang.org/x/crypto/bcrypt"
)

type account struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
}

// LocalProvider keeps bcrypt hashed credentials in the accounts collection, keyed by the
// normalized email address.
type LocalProvider struct {
	store db.Store
	cost  int

	// Serializes the exists check and the write of SignUp.
	mu sync.Mutex
}

func NewLocalProvider(store db.Store) *LocalProvider {
	return &LocalProvider{store: store, cost: bcrypt.DefaultCost}
}

func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	a, err := p.lookup(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return &model.Identity{ID: a.UserID, Email: a.Email, Name: a.Name}, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, email, password, name string) (*model.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	_, err = p.lookup(ctx, email)
	if err == nil {
		return nil, ErrAccountExists
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	a := &account{
		UserID:       uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
	}
	if err := p.store.Put(ctx, db.CollectionAccounts, email, a); err != nil {
		return nil, fmt.Errorf("error saving account: %w", err)
	}
	return &model.Identity{ID: a.UserID, Email: a.Email, Name: a.Name}, nil
}

func (p *LocalProvider) lookup(ctx context.Context, email string) (*account, error) {
	d, err := p.store.Get(ctx, db.CollectionAccounts, email)
	if err != nil {
		return nil, err
	}
	a := &account{}
	if err := d.Decode(a); err != nil {
		return nil, err
	}
	return a, nil
}
