package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	applyEnv(cfg, mapLookup(map[string]string{
		"GRPC_ADDRESS":         ":6000",
		"DATABASE_DSN":         "postgres://env",
		"JWT_SECRET":           "legacy",
		"ACCESS_TOKEN_SECRET":  "acc",
		"REFRESH_TOKEN_SECRET": "ref",
		"ACCESS_TOKEN_TTL":     "30m",
		"PASSWORD_HASH_COST":   "12",
		"SMTP_HOST":            "smtp.example.com",
		"SMTP_PORT":            "2525",
		"ALLOWED_ORIGINS":      " https://a.example , ,https://b.example",
		"RATE_LIMIT_RPS":       "0.5",
		"LOG_LEVEL":            "",
	}))

	assert.Equal(t, ":6000", cfg.EndpointAddrGRPC)
	assert.Equal(t, "postgres://env", cfg.DatabaseDSN)
	assert.Equal(t, "legacy", cfg.ActivationSecret)
	assert.Equal(t, "acc", cfg.AccessTokenSecret)
	assert.Equal(t, "ref", cfg.RefreshTokenSecret)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 12, cfg.PasswordHashCost)
	assert.Equal(t, "smtp.example.com", cfg.SMTPHost)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 0.5, cfg.RateLimitRPS)
	assert.Equal(t, "info", cfg.LogLevel, "empty values are ignored")
}

func TestApplyEnv_ActivationSecretBeatsJWTSecret(t *testing.T) {
	cfg := &Config{}
	applyEnv(cfg, mapLookup(map[string]string{"JWT_SECRET": "old", "ACTIVATION_SECRET": "new"}))
	assert.Equal(t, "new", cfg.ActivationSecret)
}

func TestApplyEnv_MalformedPanics(t *testing.T) {
	for _, kv := range [][2]string{
		{"SMTP_PORT", "twenty"},
		{"ACCESS_TOKEN_TTL", "15"},
		{"RATE_LIMIT_RPS", "fast"},
	} {
		require.Panics(t, func() {
			applyEnv(&Config{}, mapLookup(map[string]string{kv[0]: kv[1]}))
		}, kv[0])
	}
}

func TestParseEnv_DotenvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ACCOUNTS_TEST_UNUSED=1\nS3_BUCKET=from-dotenv\nPHONE_REGION=LV\n"), 0o600))

	t.Setenv("PHONE_REGION", "GB")
	os.Args = []string{"testbin", "-env-file", path}

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, "from-dotenv", cfg.S3Bucket)
	assert.Equal(t, "GB", cfg.PhoneRegion, "process environment wins over the dotenv file")

	os.Args = []string{"testbin", "-env-file", filepath.Join(t.TempDir(), "missing.env")}
	require.Panics(t, func() { parseEnv(&Config{}) })
}
