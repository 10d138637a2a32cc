package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	AuthProviderLocal = "local"
	AuthProviderOAuth = "oauth"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Admin    HTTPConfig     `mapstructure:"admin"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Store    StoreConfig    `mapstructure:"store"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Auth     AuthConfig     `mapstructure:"auth"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port is required")
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Postgres.ConnStr == "" {
			return errors.New("postgres.conn_str is required for the postgres store")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store.driver: %q", c.Store.Driver)
	}

	if len(c.Auth.SessionSecret) < 16 {
		return errors.New("auth.session_secret must be at least 16 characters")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}

	switch c.Auth.Provider {
	case AuthProviderLocal:
	case AuthProviderOAuth:
		if c.OAuth.TokenURL == "" || c.OAuth.UserInfoURL == "" || c.OAuth.ClientID == "" {
			return errors.New("oauth.client_id, oauth.token_url and oauth.userinfo_url are required for the oauth provider")
		}
	default:
		return fmt.Errorf("unknown auth.provider: %q", c.Auth.Provider)
	}
	return nil
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type HTTPConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	// Zero disables the periodic refresh of cached collections.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

type PostgresConfig struct {
	ConnStr string `mapstructure:"conn_str"`
}

type AuthConfig struct {
	Provider      string        `mapstructure:"provider"`
	SessionSecret string        `mapstructure:"session_secret"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
}

type OAuthConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	TokenURL     string   `mapstructure:"token_url"`
	UserInfoURL  string   `mapstructure:"userinfo_url"`
	Scopes       []string `mapstructure:"scopes"`
}
