package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
	assert.Empty(t, c.AccessTokenSecret)
	assert.Equal(t, 5*time.Minute, c.ActivationTokenTTL)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
	assert.Equal(t, 72*time.Hour, c.RefreshTokenTTL)
	assert.Equal(t, "bcrypt", c.PasswordHashAlgorithm)
	assert.Equal(t, 10, c.PasswordHashCost)
	assert.Equal(t, RevocationNone, c.RevocationBackend)
	assert.Equal(t, "US", c.PhoneRegion)
	assert.False(t, c.AvatarsEnabled())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, 15*time.Minute, c.AccessTokenTTL)
}

func validConfig() *Config {
	c := &Config{}
	c.LoadDefaults()
	c.ActivationSecret = "a"
	c.AccessTokenSecret = "b"
	c.RefreshTokenSecret = "c"
	return c
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing activation secret", func(c *Config) { c.ActivationSecret = "" }, "activation secret is required"},
		{"missing access secret", func(c *Config) { c.AccessTokenSecret = "" }, "access token secret is required"},
		{"missing refresh secret", func(c *Config) { c.RefreshTokenSecret = "" }, "refresh token secret is required"},
		{"zero access ttl", func(c *Config) { c.AccessTokenTTL = 0 }, "access token ttl must be positive"},
		{"negative refresh ttl", func(c *Config) { c.RefreshTokenTTL = -time.Second }, "refresh token ttl must be positive"},
		{"postgres without dsn", func(c *Config) { c.RevocationBackend = RevocationPostgres }, "needs a database dsn"},
		{"redis without url", func(c *Config) { c.RevocationBackend = RevocationRedis }, "needs a redis url"},
		{"unknown backend", func(c *Config) { c.RevocationBackend = "etcd" }, "unknown revocation backend"},
		{"memory without purge interval", func(c *Config) {
			c.RevocationBackend = RevocationMemory
			c.RevocationPurgeInterval = 0
		}, "purge interval must be positive"},
		{"negative queue", func(c *Config) { c.MailQueueSize = -1 }, "mail queue size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := &Config{}
	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"activation secret", "access token secret", "refresh token secret", "activation token ttl"} {
		assert.Contains(t, err.Error(), want)
	}
}
