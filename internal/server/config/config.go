// Package config handles configuration for the account service, layered as
// defaults, JSON file, environment (with an optional dotenv file) and
// command-line flags. Later layers win.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Revocation backends.
const (
	RevocationNone     = "none"
	RevocationMemory   = "memory"
	RevocationPostgres = "postgres"
	RevocationRedis    = "redis"
)

// Config holds runtime settings for the account service.
//
// An empty DatabaseDSN selects in-memory storage, an empty SMTPHost logs
// mails instead of sending them, and an empty S3Bucket disables avatars.
type Config struct {
	EndpointAddrGRPC string
	EndpointAddrHTTP string
	DatabaseDSN      string

	ActivationSecret   string
	AccessTokenSecret  string
	RefreshTokenSecret string
	ActivationTokenTTL time.Duration
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	PasswordHashAlgorithm string
	PasswordHashCost      int

	SMTPHost      string
	SMTPPort      int
	SMTPUser      string
	SMTPPassword  string
	MailFrom      string
	MailQueueSize int

	RevocationBackend       string
	RedisURL                string
	RevocationPurgeInterval time.Duration

	PhoneRegion    string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	LogLevel       string

	S3RootUser      string
	S3RootPassword  string
	S3Bucket        string
	S3Region        string
	S3BaseEndpoint  string
	AvatarUploadTTL time.Duration
}

// LoadDefaults populates Config with development defaults. Token secrets have
// no default and must be supplied.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.ActivationTokenTTL = 5 * time.Minute
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 72 * time.Hour
	c.PasswordHashAlgorithm = "bcrypt"
	c.PasswordHashCost = 10
	c.SMTPPort = 587
	c.MailFrom = "no-reply@localhost"
	c.MailQueueSize = 64
	c.RevocationBackend = RevocationNone
	c.RevocationPurgeInterval = 10 * time.Minute
	c.PhoneRegion = "US"
	c.AllowedOrigins = []string{"http://localhost:3000"}
	c.RateLimitRPS = 5
	c.RateLimitBurst = 10
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
	c.AvatarUploadTTL = 15 * time.Minute
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
// Malformed input panics, as there is nothing sensible to start with.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	secrets := []struct{ name, value string }{
		{"activation secret", c.ActivationSecret},
		{"access token secret", c.AccessTokenSecret},
		{"refresh token secret", c.RefreshTokenSecret},
	}
	for _, s := range secrets {
		if s.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", s.name))
		}
	}

	ttls := []struct {
		name  string
		value time.Duration
	}{
		{"activation token ttl", c.ActivationTokenTTL},
		{"access token ttl", c.AccessTokenTTL},
		{"refresh token ttl", c.RefreshTokenTTL},
	}
	for _, t := range ttls {
		if t.value <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", t.name, t.value))
		}
	}

	purgeable := false
	switch c.RevocationBackend {
	case RevocationNone:
	case RevocationMemory:
		purgeable = true
	case RevocationPostgres:
		purgeable = true
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("postgres revocation backend needs a database dsn"))
		}
	case RevocationRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("redis revocation backend needs a redis url"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown revocation backend %q", c.RevocationBackend))
	}
	if purgeable && c.RevocationPurgeInterval <= 0 {
		errs = append(errs, errors.New("revocation purge interval must be positive"))
	}

	if c.MailQueueSize < 0 {
		errs = append(errs, errors.New("mail queue size must not be negative"))
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		errs = append(errs, errors.New("rate limit must not be negative"))
	}

	return errors.Join(errs...)
}

// AvatarsEnabled reports whether object storage is configured.
func (c *Config) AvatarsEnabled() bool {
	return c.S3Bucket != ""
}
