package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	envPort            = "PORT"
	envDatabaseDSN     = "DATABASE_DSN"
	envSigningKey      = "JWT_SIGNING_KEY"
	envTokenExpiration = "JWT_EXPIRATION_HOURS"
	envTokenIssuer     = "JWT_ISSUER"
	envTokenAudience   = "JWT_AUDIENCE"
)

const (
	defaultPort            = "8080"
	defaultDatabaseDSN     = "file:auth.db?cache=shared&_pragma=foreign_keys(1)"
	defaultTokenExpiration = 24
	defaultTokenIssuer     = "go-auth-service"
	minSigningKeyLength    = 32
)

// Config is the process configuration, loaded from the environment. It
// satisfies the auth.Config getters.
type Config struct {
	Port            string
	DatabaseDSN     string
	SigningKey      string
	TokenExpiration int
	Issuer          string
	Audience        []string
}

// LoadConfig reads the environment into a validated Config
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnv(envPort, defaultPort),
		DatabaseDSN:     getEnv(envDatabaseDSN, defaultDatabaseDSN),
		SigningKey:      os.Getenv(envSigningKey),
		TokenExpiration: getEnvInt(envTokenExpiration, defaultTokenExpiration),
		Issuer:          getEnv(envTokenIssuer, defaultTokenIssuer),
	}

	if aud := os.Getenv(envTokenAudience); aud != "" {
		for _, a := range strings.Split(aud, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cfg.Audience = append(cfg.Audience, a)
			}
		}
	}

	if cfg.SigningKey == "" {
		return nil, fmt.Errorf("%s must be set", envSigningKey)
	}

	if len(cfg.SigningKey) < minSigningKeyLength {
		return nil, fmt.Errorf("%s must be at least %d characters", envSigningKey, minSigningKeyLength)
	}

	if cfg.TokenExpiration <= 0 {
		return nil, fmt.Errorf("%s must be a positive number of hours", envTokenExpiration)
	}

	return cfg, nil
}

func (c *Config) GetSigningKey() string   { return c.SigningKey }
func (c *Config) GetTokenExpiration() int { return c.TokenExpiration }
func (c *Config) GetIssuer() string       { return c.Issuer }
func (c *Config) GetAudience() []string   { return c.Audience }
func (c *Config) GetContextKey() string   { return "user" }
func (c *Config) GetAuthScheme() string   { return "Bearer" }
func (c *Config) GetTokenLookup() string  { return "header:Authorization" }

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}

	return n
}
