package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"packliste/internal/catalog"
	"packliste/internal/format"
	"packliste/internal/handlers"
	"packliste/internal/ingredients"
	applog "packliste/internal/log"
	"packliste/internal/metrics"
)

// Config captures the runtime configuration for the HTTP server.
type Config struct {
	Addr     string
	Session  SessionConfig
	Database *gorm.DB
	// Locale is a BCP 47 tag used for number formatting and collation.
	Locale string
	// MaxConcurrency bounds catalogue lookups per aggregation.
	MaxConcurrency int
	// Metrics defaults to a fresh registry when nil.
	Metrics *metrics.Metrics
}

// SessionConfig controls session behavior for the HTTP server.
type SessionConfig struct {
	Lifetime     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

// Server wraps an http.Server and exposes helpers for bootstrapping a
// production-ready web service.
type Server struct {
	config     Config
	httpServer *http.Server
}

// New builds a new Server using the provided configuration.
func New(cfg Config) (*Server, error) {
	applog.Debug(context.Background(), "initializing server",
		"addr", cfg.Addr,
		"sessionLifetime", cfg.Session.Lifetime.String(),
		"sessionCookie", cfg.Session.CookieName,
		"locale", cfg.Locale,
	)

	sessionCfg := cfg.Session
	if sessionCfg.Lifetime <= 0 {
		applog.Debug(context.Background(), "session lifetime not provided, using default")
		sessionCfg.Lifetime = 12 * time.Hour
	}
	if strings.TrimSpace(sessionCfg.CookieName) == "" {
		applog.Debug(context.Background(), "session cookie name not provided, using default")
		sessionCfg.CookieName = "packliste_session"
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = sessionCfg.Lifetime
	sessionManager.Cookie.Name = sessionCfg.CookieName
	sessionManager.Cookie.Domain = sessionCfg.CookieDomain
	sessionManager.Cookie.HttpOnly = true
	sessionManager.Cookie.Persist = true
	sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	sessionManager.Cookie.Secure = sessionCfg.CookieSecure

	m := cfg.Metrics
	if m == nil {
		m = metrics.New()
	}

	formatter := format.New(cfg.Locale)

	var service *ingredients.Service
	if cfg.Database != nil {
		service = ingredients.NewService(
			catalog.NewStore(cfg.Database),
			ingredients.WithMaxConcurrency(cfg.MaxConcurrency),
			ingredients.WithCollation(collationTag(formatter.Tag())),
			ingredients.WithObserver(m),
		)
	}

	handlers.Configure(handlers.Dependencies{
		Sessions:  sessionManager,
		Database:  cfg.Database,
		Service:   service,
		Formatter: formatter,
	})

	applog.Debug(context.Background(), "handler dependencies configured", "hasDatabase", cfg.Database != nil)

	handler := requestID(m.Middleware(sessionManager.LoadAndSave(newRouter(m))))

	return &Server{
		config: cfg,
		httpServer: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// Start begins serving HTTP traffic using the underlying http.Server.
func (s *Server) Start() error {
	applog.Info(context.Background(), "server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server with a timeout.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	applog.Debug(ctx, "server initiating graceful shutdown")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the configured HTTP handler, enabling integration tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func collationTag(tag language.Tag) language.Tag {
	base, _ := tag.Base()
	return language.Make(base.String())
}
