// Package httpapi exposes the account service as HTTP/JSON under /api/accounts.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/dmitrijs2005/accounts/internal/server/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 5 * time.Second

type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type HTTPServer struct {
	address  string
	accounts api.Accounts
	avatars  api.Avatars
	logger   logging.Logger
	opts     Options
	limiter  *ipLimiter
}

func NewHTTPServer(a string, l logging.Logger, accounts api.Accounts, avatars api.Avatars, opts Options) *HTTPServer {
	return &HTTPServer{
		address:  a,
		accounts: accounts,
		avatars:  avatars,
		logger:   l.With("module", "http_server"),
		opts:     opts,
		limiter:  newIPLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
	}
}

// Router returns the handler tree.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", refreshTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/accounts", func(r chi.Router) {
		r.Get("/", s.list)

		r.Group(func(r chi.Router) {
			r.Use(s.limiter.middleware)
			r.Post("/register", s.register)
			r.Post("/activate", s.activate)
			r.Post("/login", s.login)
			r.Post("/refresh", s.refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.guard)
			r.Get("/me", s.current)
			r.Get("/me/avatar", s.avatarURL)
			r.Post("/logout", s.logout)
			r.Post("/avatar", s.avatarUpload)
		})
	})

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve handles requests on lis until ctx is cancelled.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
