package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mww/washed_up/model"
	"golang.org/x/oauth2"
)

type userInfo struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OAuthProvider signs users in against an external OAuth2 server using the resource owner
// password grant, then reads the identity from the userinfo endpoint. Accounts are managed
// by the external server so sign up is not available.
type OAuthProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewOAuthProvider(config *oauth2.Config, userInfoURL string) (*OAuthProvider, error) {
	if config == nil || config.Endpoint.TokenURL == "" {
		return nil, errors.New("oauth token url must be configured")
	}
	if userInfoURL == "" {
		return nil, errors.New("oauth userinfo url must be configured")
	}
	return &OAuthProvider{config: config, userInfoURL: userInfoURL}, nil
}

func (p *OAuthProvider) SignIn(ctx context.Context, email, password string) (*model.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	token, err := p.config.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode < 500 {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("error requesting token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status: %s", resp.Status)
	}

	info := userInfo{}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("error decoding userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, errors.New("userinfo response is missing the subject")
	}
	if info.Email == "" {
		info.Email = email
	}

	return &model.Identity{ID: info.Sub, Email: normalizeEmail(info.Email), Name: info.Name}, nil
}

func (p *OAuthProvider) SignUp(ctx context.Context, email, password, name string) (*model.Identity, error) {
	return nil, ErrSignUpUnsupported
}
