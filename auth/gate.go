package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/mww/washed_up/db"
	"github.com/mww/washed_up/model"
	"go.uber.org/zap"
)

const CookieName = "session"

// Event describes a change of the signed in identity. Session is nil after a sign out.
type Event struct {
	Session  *Session
	Previous *Session
}

type Listener func(Event)

// Gate ties the identity provider to the member profiles and the session tokens.
type Gate struct {
	provider Provider
	store    db.Store
	sessions *Sessions
	log      *zap.SugaredLogger

	mu        sync.Mutex
	nextID    int
	listeners map[int]Listener

	// Held while a missing profile is created so only one of several concurrent first
	// sign ups becomes the admin.
	profileMu sync.Mutex
}

func NewGate(provider Provider, store db.Store, sessions *Sessions, log *zap.SugaredLogger) *Gate {
	return &Gate{
		provider:  provider,
		store:     store,
		sessions:  sessions,
		log:       log,
		listeners: make(map[int]Listener),
	}
}

// Subscribe registers fn to be called after every sign in, sign up and sign out. The
// returned func removes the listener.
func (g *Gate) Subscribe(fn Listener) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	g.listeners[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *Gate) notify(e Event) {
	g.mu.Lock()
	fns := make([]Listener, 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// SignIn authenticates with the provider and returns a signed token for the session.
func (g *Gate) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	id, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		return "", nil, err
	}
	return g.start(ctx, id)
}

// SignUp creates the account with the provider and the linked member profile.
func (g *Gate) SignUp(ctx context.Context, email, password, name string) (string, *Session, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, ErrMissingName
	}

	id, err := g.provider.SignUp(ctx, email, password, name)
	if err != nil {
		return "", nil, err
	}
	return g.start(ctx, id)
}

func (g *Gate) SignOut(s *Session) {
	if s == nil {
		return
	}
	g.log.Infow("signed out", "user", s.Identity.ID)
	g.notify(Event{Previous: s})
}

func (g *Gate) start(ctx context.Context, id *model.Identity) (string, *Session, error) {
	m, err := g.ensureProfile(ctx, id)
	if err != nil {
		return "", nil, err
	}

	if m.Name != "" {
		id.Name = m.Name
	}
	token, err := g.sessions.Issue(*id, m.IsAdmin)
	if err != nil {
		return "", nil, err
	}
	s, err := g.sessions.Verify(token)
	if err != nil {
		return "", nil, err
	}

	g.log.Infow("signed in", "user", id.ID, "admin", s.Admin)
	g.notify(Event{Session: s})
	return token, s, nil
}

// ensureProfile loads the member profile linked to the identity, creating it when it does
// not exist yet. The first profile ever created is the league admin.
func (g *Gate) ensureProfile(ctx context.Context, id *model.Identity) (*model.Member, error) {
	m, err := g.Profile(ctx, id)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	g.profileMu.Lock()
	defer g.profileMu.Unlock()

	// Another sign in of the same identity may have created it while we waited.
	if m, err := g.Profile(ctx, id); err == nil {
		return m, nil
	} else if !errors.Is(err, ErrProfileNotFound) {
		return nil, err
	}

	existing, err := g.store.ListAll(ctx, db.CollectionMembers)
	if err != nil {
		return nil, fmt.Errorf("error loading members: %w", err)
	}

	m = &model.Member{
		ID:      id.ID,
		Name:    displayName(id),
		Email:   id.Email,
		IsAdmin: len(existing) == 0,
	}
	if err := g.store.Put(ctx, db.CollectionMembers, m.ID, m); err != nil {
		return nil, fmt.Errorf("error saving member profile: %w", err)
	}
	if m.IsAdmin {
		g.log.Infow("first member registered as admin", "user", m.ID, "email", m.Email)
	}
	return m, nil
}

// Profile returns the member profile linked to the identity.
func (g *Gate) Profile(ctx context.Context, id *model.Identity) (*model.Member, error) {
	d, err := g.store.Get(ctx, db.CollectionMembers, id.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("error loading member profile: %w", err)
	}

	m := &model.Member{}
	if err := d.Decode(m); err != nil {
		return nil, err
	}
	m.ID = d.ID
	return m, nil
}

// GrantAdmin marks the member with the given email as an admin. Sessions issued before the
// grant keep their old claims until the member signs in again.
func (g *Gate) GrantAdmin(ctx context.Context, email string) (*model.Member, error) {
	email = normalizeEmail(email)
	docs, err := g.store.ListAll(ctx, db.CollectionMembers)
	if err != nil {
		return nil, fmt.Errorf("error loading members: %w", err)
	}

	for _, d := range docs {
		m := &model.Member{}
		if err := d.Decode(m); err != nil {
			return nil, err
		}
		if normalizeEmail(m.Email) != email {
			continue
		}

		m.ID = d.ID
		m.IsAdmin = true
		if err := g.store.Merge(ctx, db.CollectionMembers, d.ID, map[string]any{"isAdmin": true}); err != nil {
			return nil, fmt.Errorf("error granting admin: %w", err)
		}
		return m, nil
	}
	return nil, ErrProfileNotFound
}

// CurrentIdentity returns the verified session carried by the request cookie, or nil.
func (g *Gate) CurrentIdentity(r *http.Request) *Session {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	s, err := g.sessions.Verify(c.Value)
	if err != nil {
		g.log.Debugw("ignoring session cookie", "error", err)
		return nil
	}
	return s
}

func (g *Gate) SetCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(g.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func (g *Gate) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func displayName(id *model.Identity) string {
	if n := strings.TrimSpace(id.Name); n != "" {
		return n
	}
	if at := strings.Index(id.Email, "@"); at > 0 {
		return id.Email[:at]
	}
	return id.Email
}
