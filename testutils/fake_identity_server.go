package testutils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

type FakeUser struct {
	Sub      string
	Email    string
	Name     string
	Password string
}

// FakeIdentityServer is an OAuth2 server that supports the password grant and a userinfo
// endpoint for a fixed set of users.
type FakeIdentityServer struct {
	s *httptest.Server

	mu     sync.Mutex
	users  map[string]FakeUser
	tokens map[string]FakeUser
	Broken bool
}

func NewFakeIdentityServer(users ...FakeUser) *FakeIdentityServer {
	f := &FakeIdentityServer{
		users:  make(map[string]FakeUser),
		tokens: make(map[string]FakeUser),
	}
	for _, u := range users {
		f.users[strings.ToLower(u.Email)] = u
	}

	r := chi.NewRouter()
	r.Post("/token", f.tokenHandler)
	r.Get("/userinfo", f.userInfoHandler)
	f.s = httptest.NewServer(r)
	return f
}

func (f *FakeIdentityServer) Close() {
	f.s.Close()
}

func (f *FakeIdentityServer) URL() string {
	return f.s.URL
}

func (f *FakeIdentityServer) UserInfoURL() string {
	return f.s.URL + "/userinfo"
}

func (f *FakeIdentityServer) Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "fakeClientID",
		ClientSecret: "fakeClientSecret",
		Endpoint: oauth2.Endpoint{
			TokenURL:  f.s.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"openid", "email", "profile"},
	}
}

func (f *FakeIdentityServer) tokenHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Broken {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "password" {
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type")
		return
	}

	u, ok := f.users[strings.ToLower(r.PostForm.Get("username"))]
	if !ok || u.Password != r.PostForm.Get("password") {
		writeOAuthError(w, http.StatusBadRequest, "invalid_grant")
		return
	}

	token := "token-" + u.Sub
	f.tokens[token] = u

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   3600,
	})
}

func (f *FakeIdentityServer) userInfoHandler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	u, ok := f.tokens[token]
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"sub":   u.Sub,
		"email": u.Email,
		"name":  u.Name,
	})
}

func writeOAuthError(w http.ResponseWriter, status int, code string) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}
