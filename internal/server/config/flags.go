package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/flagx"
)

// parseFlags overlays command-line flags. Only the flags defined here are
// passed to the parser; -c/-config and -env-file belong to other layers.
//
//	-a      gRPC bind address          -http      HTTP bind address
//	-d      PostgreSQL DSN             -log-level debug|info|warn|error
//	-activation-secret / -access-secret / -refresh-secret
//	-activation-ttl / -access-ttl / -refresh-ttl (Go durations)
//	-u -p -b -g -e  S3 user, password, bucket, region, endpoint
func parseFlags(config *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port of the gRPC server")
	fs.StringVar(&config.EndpointAddrHTTP, "http", config.EndpointAddrHTTP, "address and port of the HTTP server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN, empty for in-memory storage")

	fs.StringVar(&config.ActivationSecret, "activation-secret", config.ActivationSecret, "activation token secret")
	fs.StringVar(&config.AccessTokenSecret, "access-secret", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "refresh-secret", config.RefreshTokenSecret, "refresh token secret")
	fs.DurationVar(&config.ActivationTokenTTL, "activation-ttl", config.ActivationTokenTTL, "activation token lifetime")
	fs.DurationVar(&config.AccessTokenTTL, "access-ttl", config.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&config.RefreshTokenTTL, "refresh-ttl", config.RefreshTokenTTL, "refresh token lifetime")

	fs.StringVar(&config.PasswordHashAlgorithm, "hash", config.PasswordHashAlgorithm, "password hash algorithm (bcrypt, argon2id)")
	fs.IntVar(&config.PasswordHashCost, "hash-cost", config.PasswordHashCost, "password hash cost")

	fs.StringVar(&config.SMTPHost, "smtp-host", config.SMTPHost, "SMTP host, empty to log mails")
	fs.IntVar(&config.SMTPPort, "smtp-port", config.SMTPPort, "SMTP port")
	fs.StringVar(&config.SMTPUser, "smtp-user", config.SMTPUser, "SMTP user")
	fs.StringVar(&config.SMTPPassword, "smtp-password", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.MailFrom, "mail-from", config.MailFrom, "sender address")

	fs.StringVar(&config.RevocationBackend, "revocation", config.RevocationBackend, "token revocation backend (none, memory, postgres, redis)")
	fs.StringVar(&config.RedisURL, "redis", config.RedisURL, "redis url")

	fs.StringVar(&config.PhoneRegion, "phone-region", config.PhoneRegion, "default phone number region")
	origins := fs.String("origins", strings.Join(config.AllowedOrigins, ","), "comma separated CORS origins")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket, empty to disable avatars")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	var allowed []string
	fs.VisitAll(func(f *flag.Flag) {
		allowed = append(allowed, "-"+f.Name, "--"+f.Name)
	})
	args := flagx.FilterArgs(os.Args[1:], allowed)

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AllowedOrigins = splitList(*origins)
}
