// Package server wires the account service together and runs its gRPC and
// HTTP endpoints until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/auth"
	"github.com/dmitrijs2005/accounts/internal/server/config"
	"github.com/dmitrijs2005/accounts/internal/server/httpapi"
	"github.com/dmitrijs2005/accounts/internal/server/mail"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/accounts/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/accounts/internal/server/services"
	"github.com/dmitrijs2005/accounts/internal/server/storage"

	gs "github.com/dmitrijs2005/accounts/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	repos    repomanager.RepositoryManager
	revoked  revokedtokens.Repository
	mailer   mail.Sender
	accounts *services.AccountService
	avatars  *services.AvatarService

	// background loops started by Run
	workers []func(ctx context.Context)
	closers []func() error
}

func NewApp(c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	app := &App{config: c, logger: logging.NewJSONLogger(os.Stdout, c.LogLevel), revoked: revokedtokens.Nop{}}
	ctx := context.Background()

	if err := app.initStorage(ctx); err != nil {
		app.close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := app.initRevocation(ctx); err != nil {
		app.close()
		return nil, fmt.Errorf("revocation init error: %w", err)
	}
	if err := app.initMailer(); err != nil {
		app.close()
		return nil, fmt.Errorf("mail init error: %w", err)
	}
	if err := app.initServices(ctx); err != nil {
		app.close()
		return nil, err
	}

	return app, nil
}

func (app *App) initStorage(ctx context.Context) error {
	if app.config.DatabaseDSN == "" {
		app.logger.Warn(ctx, "no database configured, accounts are kept in memory")
		app.repos = repomanager.NewMemoryRepositoryManager()
		return nil
	}

	db, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return err
	}
	app.db = db
	app.closers = append(app.closers, db.Close)

	app.repos = repomanager.NewPostgresRepositoryManager()
	if err := app.repos.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

func (app *App) initRevocation(ctx context.Context) error {
	switch app.config.RevocationBackend {
	case config.RevocationMemory:
		app.revoked = revokedtokens.NewMemoryRepository()
	case config.RevocationPostgres:
		app.revoked = app.repos.RevokedTokens(app.db)
	case config.RevocationRedis:
		client, err := revokedtokens.ConnectRedis(ctx, app.config.RedisURL)
		if err != nil {
			return err
		}
		app.closers = append(app.closers, client.Close)
		app.revoked = revokedtokens.NewRedisRepository(client, "")
	default:
		return nil
	}

	if p, ok := app.revoked.(revokedtokens.Purger); ok {
		interval := app.config.RevocationPurgeInterval
		app.workers = append(app.workers, func(ctx context.Context) {
			revokedtokens.RunPurger(ctx, p, interval, app.logger)
		})
	}
	app.logger.Info(ctx, "token revocation enabled", "backend", app.config.RevocationBackend)
	return nil
}

func (app *App) initMailer() error {
	templates, err := mail.LoadTemplates()
	if err != nil {
		return err
	}

	var sender mail.Sender
	if app.config.SMTPHost == "" {
		sender = mail.NewLogSender(templates, app.logger)
	} else {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     app.config.SMTPHost,
			Port:     app.config.SMTPPort,
			User:     app.config.SMTPUser,
			Password: app.config.SMTPPassword,
			From:     app.config.MailFrom,
		}, templates)
	}

	if app.config.MailQueueSize > 0 {
		async := mail.NewAsyncSender(sender, app.config.MailQueueSize, app.logger)
		app.workers = append(app.workers, async.Run)
		sender = async
	}

	app.mailer = sender
	return nil
}

func (app *App) initServices(ctx context.Context) error {
	c := app.config

	tokens, err := auth.NewTokenCodec(map[auth.Kind]auth.KeyConfig{
		auth.KindActivation: {Secret: []byte(c.ActivationSecret), TTL: c.ActivationTokenTTL, Seal: true},
		auth.KindAccess:     {Secret: []byte(c.AccessTokenSecret), TTL: c.AccessTokenTTL},
		auth.KindRefresh:    {Secret: []byte(c.RefreshTokenSecret), TTL: c.RefreshTokenTTL},
	})
	if err != nil {
		return fmt.Errorf("token codec: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(c.PasswordHashAlgorithm, c.PasswordHashCost)
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}

	app.accounts, err = services.NewAccountService(app.db, app.repos, tokens, hasher, app.mailer,
		services.WithPhoneRegion(c.PhoneRegion),
		services.WithRevocation(app.revoked),
		services.WithLogger(app.logger),
	)
	if err != nil {
		return fmt.Errorf("account service: %w", err)
	}

	var presigner storage.Presigner
	if c.AvatarsEnabled() {
		p, err := storage.NewS3Presigner(ctx, storage.S3Config{
			User:         c.S3RootUser,
			Password:     c.S3RootPassword,
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			Expires:      c.AvatarUploadTTL,
		})
		if err != nil {
			return fmt.Errorf("avatar storage: %w", err)
		}
		presigner = p
	}
	app.avatars = services.NewAvatarService(app.db, app.repos, presigner, app.logger)

	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accounts, app.avatars)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.accounts, app.avatars, httpapi.Options{
		AllowedOrigins: app.config.AllowedOrigins,
		RateLimitRPS:   app.config.RateLimitRPS,
		RateLimitBurst: app.config.RateLimitBurst,
	})
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or the process receives a stop signal,
// then waits for the servers and background loops and releases resources.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	for _, w := range app.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w(ctx)
		}()
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Error(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}
