// Package config loads application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envFile = ".env"

// Load reads the configuration from the environment. Values in the .env file are used
// for variables that are not already set.
func Load() (*Config, error) {
	return load(envFile)
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	if envMap, err := godotenv.Read(envFile); err == nil {
		for k, val := range envMap {
			if _, exists := os.LookupEnv(k); !exists {
				_ = os.Setenv(k, val)
			}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading %s file: %w", envFile, err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("http.request_timeout", 10*time.Second)
	v.SetDefault("admin.request_timeout", 30*time.Second)

	v.SetDefault("store.driver", StoreDriverPostgres)
	v.SetDefault("store.refresh_interval", time.Duration(0))

	v.SetDefault("auth.provider", AuthProviderLocal)
	v.SetDefault("auth.session_ttl", 7*24*time.Hour)

	v.SetDefault("oauth.scopes", []string{"openid", "email", "profile"})
}

func bindEnvs(v *viper.Viper) {
	keys := []string{
		"logging.level",
		"server.port",
		"server.shutdown_timeout",
		"http.request_timeout",
		"admin.request_timeout",
		"store.driver",
		"store.refresh_interval",
		"postgres.conn_str",
		"auth.provider",
		"auth.session_secret",
		"auth.session_ttl",
		"oauth.client_id",
		"oauth.client_secret",
		"oauth.token_url",
		"oauth.userinfo_url",
		"oauth.scopes",
	}

	for _, k := range keys {
		_ = v.BindEnv(k)
	}
}
