package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef"

func TestLoad_defaults(t *testing.T) {
	t.Setenv("AUTH_SESSION_SECRET", secret)
	t.Setenv("POSTGRES_CONN_STR", "postgres://localhost/washed_up")

	cfg, err := load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.Admin.RequestTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, time.Duration(0), cfg.Store.RefreshInterval)
	assert.Equal(t, AuthProviderLocal, cfg.Auth.Provider)
	assert.Equal(t, 168*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, "postgres://localhost/washed_up", cfg.Postgres.ConnStr)
}

func TestLoad_envFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	contents := "AUTH_SESSION_SECRET=" + secret + "\nSTORE_DRIVER=memory\nSERVER_PORT=8080\nHTTP_REQUEST_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	// Variables that are already set win over the file.
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "")
	os.Unsetenv("STORE_DRIVER")
	t.Setenv("AUTH_SESSION_SECRET", "")
	os.Unsetenv("AUTH_SESSION_SECRET")
	t.Setenv("HTTP_REQUEST_TIMEOUT", "")
	os.Unsetenv("HTTP_REQUEST_TIMEOUT")

	cfg, err := load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 5*time.Second, cfg.HTTP.RequestTimeout)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 3000},
			Store:  StoreConfig{Driver: StoreDriverMemory},
			Auth:   AuthConfig{Provider: AuthProviderLocal, SessionSecret: secret, SessionTTL: time.Hour},
		}
	}

	tests := map[string]struct {
		modify  func(c *Config)
		wantErr bool
	}{
		"valid":              {modify: func(c *Config) {}},
		"no port":            {modify: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		"postgres no conn":   {modify: func(c *Config) { c.Store.Driver = StoreDriverPostgres }, wantErr: true},
		"unknown driver":     {modify: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: true},
		"short secret":       {modify: func(c *Config) { c.Auth.SessionSecret = "short" }, wantErr: true},
		"no ttl":             {modify: func(c *Config) { c.Auth.SessionTTL = 0 }, wantErr: true},
		"unknown provider":   {modify: func(c *Config) { c.Auth.Provider = "ldap" }, wantErr: true},
		"oauth missing urls": {modify: func(c *Config) { c.Auth.Provider = AuthProviderOAuth }, wantErr: true},
		"oauth complete": {modify: func(c *Config) {
			c.Auth.Provider = AuthProviderOAuth
			c.OAuth = OAuthConfig{ClientID: "id", TokenURL: "http://idp/token", UserInfoURL: "http://idp/userinfo"}
		}},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid()
			tc.modify(&c)
			err := c.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
