package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/accounts/internal/flagx"
	"github.com/joho/godotenv"
)

type lookupFunc func(key string) (string, bool)

// parseEnv overlays environment variables. A dotenv file named by -env-file
// (or ./.env when present) supplies values the process environment lacks.
func parseEnv(config *Config) {
	dotenv := map[string]string{}

	if path := flagx.EnvFileFlags(); path != "" {
		m, err := godotenv.Read(path)
		if err != nil {
			panic(err)
		}
		dotenv = m
	} else if m, err := godotenv.Read(); err == nil {
		dotenv = m
	}

	applyEnv(config, func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	})
}

func applyEnv(config *Config, lookup lookupFunc) {
	e := envReader{lookup: lookup}

	e.str("GRPC_ADDRESS", &config.EndpointAddrGRPC)
	e.str("HTTP_ADDRESS", &config.EndpointAddrHTTP)
	e.str("DATABASE_DSN", &config.DatabaseDSN)

	e.str("JWT_SECRET", &config.ActivationSecret)
	e.str("ACTIVATION_SECRET", &config.ActivationSecret)
	e.str("ACCESS_TOKEN_SECRET", &config.AccessTokenSecret)
	e.str("REFRESH_TOKEN_SECRET", &config.RefreshTokenSecret)
	e.duration("ACTIVATION_TOKEN_TTL", &config.ActivationTokenTTL)
	e.duration("ACCESS_TOKEN_TTL", &config.AccessTokenTTL)
	e.duration("REFRESH_TOKEN_TTL", &config.RefreshTokenTTL)

	e.str("PASSWORD_HASH_ALGORITHM", &config.PasswordHashAlgorithm)
	e.int("PASSWORD_HASH_COST", &config.PasswordHashCost)

	e.str("SMTP_HOST", &config.SMTPHost)
	e.int("SMTP_PORT", &config.SMTPPort)
	e.str("SMTP_USER", &config.SMTPUser)
	e.str("SMTP_PASSWORD", &config.SMTPPassword)
	e.str("MAIL_FROM", &config.MailFrom)
	e.int("MAIL_QUEUE_SIZE", &config.MailQueueSize)

	e.str("REVOCATION_BACKEND", &config.RevocationBackend)
	e.str("REDIS_URL", &config.RedisURL)
	e.duration("REVOCATION_PURGE_INTERVAL", &config.RevocationPurgeInterval)

	e.str("PHONE_REGION", &config.PhoneRegion)
	e.list("ALLOWED_ORIGINS", &config.AllowedOrigins)
	e.float("RATE_LIMIT_RPS", &config.RateLimitRPS)
	e.int("RATE_LIMIT_BURST", &config.RateLimitBurst)
	e.str("LOG_LEVEL", &config.LogLevel)

	e.str("S3_ROOT_USER", &config.S3RootUser)
	e.str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	e.str("S3_BUCKET", &config.S3Bucket)
	e.str("S3_REGION", &config.S3Region)
	e.str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	e.duration("AVATAR_UPLOAD_TTL", &config.AvatarUploadTTL)
}

// envReader applies non-empty variables and panics on malformed numbers.
type envReader struct {
	lookup lookupFunc
}

func (e envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e envReader) int(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("env %s: %w", key, err))
		}
		*dst = n
	}
}

func (e envReader) float(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(fmt.Errorf("env %s: %w", key, err))
		}
		*dst = f
	}
}

func (e envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("env %s: %w", key, err))
		}
		*dst = d
	}
}

func (e envReader) list(key string, dst *[]string) {
	if v, ok := e.get(key); ok {
		*dst = splitList(v)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
