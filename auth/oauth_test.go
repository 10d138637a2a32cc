package auth

import (
	"context"
	"testing"

	"github.com/mww/washed_up/model"
	"github.com/mww/washed_up/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bruno = testutils.FakeUser{Sub: "sub-bruno", Email: "Bruno@Example.com", Name: "Bruno", Password: "touchdown"}

func TestOAuthProvider_signIn(t *testing.T) {
	server := testutils.NewFakeIdentityServer(bruno)
	defer server.Close()

	p, err := NewOAuthProvider(server.Config(), server.UserInfoURL())
	require.NoError(t, err)

	ctx := context.Background()
	got, err := p.SignIn(ctx, "bruno@example.com", "touchdown")
	require.NoError(t, err)
	assert.Equal(t, &model.Identity{ID: "sub-bruno", Email: "bruno@example.com", Name: "Bruno"}, got)

	_, err = p.SignIn(ctx, "bruno@example.com", "fumble")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = p.SignIn(ctx, "", "touchdown")
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = p.SignUp(ctx, "new@example.com", "pw", "New")
	assert.ErrorIs(t, err, ErrSignUpUnsupported)
}

func TestOAuthProvider_serverError(t *testing.T) {
	server := testutils.NewFakeIdentityServer(bruno)
	defer server.Close()
	server.Broken = true

	p, err := NewOAuthProvider(server.Config(), server.UserInfoURL())
	require.NoError(t, err)

	_, err = p.SignIn(context.Background(), "bruno@example.com", "touchdown")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBadCredentials)
}

func TestNewOAuthProvider_validation(t *testing.T) {
	_, err := NewOAuthProvider(nil, "http://localhost/userinfo")
	assert.Error(t, err)

	server := testutils.NewFakeIdentityServer()
	defer server.Close()
	_, err = NewOAuthProvider(server.Config(), "")
	assert.Error(t, err)
}
