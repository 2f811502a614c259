// ABOUTME: Development backend speaking the analysis service HTTP contract
// ABOUTME: Wires session auth, usage storage, descriptor computation and metrics

package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/2389/molindex/internal/auth"
	"github.com/2389/molindex/internal/config"
	"github.com/2389/molindex/internal/rowcache"
	"github.com/2389/molindex/internal/store"
)

// CheckCookieName is the short-lived cookie used by the cookie support check.
const CheckCookieName = "mol_cookie_test"

// Row cache defaults.
const (
	DefaultCacheTTL  = 30 * time.Minute
	DefaultCacheSize = 10_000
)

// Options configures a Server.
type Options struct {
	Config        config.DevServerConfig
	Usage         store.UsageStore
	SessionCookie string // defaults to config.DefaultSessionCookie
	Extension     string // defaults to config.DefaultExtension
	SessionTTL    time.Duration
	Registry      *prometheus.Registry // defaults to a fresh registry
	Cache         *rowcache.Cache      // defaults to a cache owned by the server
	Logger        *slog.Logger
}

// Server is the development backend.
type Server struct {
	cfg        config.DevServerConfig
	usage      store.UsageStore
	sessions   *auth.SessionTokens
	isAdmin    auth.AdminChecker
	cookieName string
	extension  string
	metrics    *Metrics
	cache      *rowcache.Cache
	ownsCache  bool
	logger     *slog.Logger

	handler    http.Handler
	httpServer *http.Server
}

// New builds a Server. The JWT secret must be at least 32 bytes.
func New(opts Options) (*Server, error) {
	if opts.Usage == nil {
		return nil, errors.New("devserver: usage store is required")
	}
	if len(opts.Config.JWTSecret) < 32 {
		return nil, errors.New("devserver: jwt_secret must be at least 32 bytes")
	}

	s := &Server{
		cfg:        opts.Config,
		usage:      opts.Usage,
		sessions:   auth.NewSessionTokens([]byte(opts.Config.JWTSecret), opts.SessionTTL),
		isAdmin:    auth.AdminList(opts.Config.AdminEmails),
		cookieName: opts.SessionCookie,
		extension:  opts.Extension,
		logger:     opts.Logger,
	}
	if s.cookieName == "" {
		s.cookieName = config.DefaultSessionCookie
	}
	if s.extension == "" {
		s.extension = config.DefaultExtension
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "devserver")

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(reg)

	s.cache = opts.Cache
	if s.cache == nil {
		s.cache = rowcache.New(DefaultCacheTTL, DefaultCacheSize)
		s.ownsCache = true
	}

	mux := http.NewServeMux()
	route := func(pattern, name string, h http.Handler) {
		mux.Handle(pattern, s.metrics.instrument(name, h))
	}

	// Public endpoints
	route("GET /health", "health", http.HandlerFunc(s.handleHealth))
	route("GET /clear-cookie", "clear_cookie", http.HandlerFunc(s.handleClearCookie))
	route("GET /check-cookies", "check_cookies", http.HandlerFunc(s.handleCheckCookies))
	route("GET /auth/google", "login", http.HandlerFunc(s.handleLogin))
	route("GET /auth/logout", "logout", http.HandlerFunc(s.handleLogout))
	route("GET /auth/check", "auth_check", auth.RequireSession(http.HandlerFunc(s.handleAuthCheck)))

	// Session endpoints
	route("GET /usage-status", "usage_status", auth.RequireSession(http.HandlerFunc(s.handleUsageStatus)))
	route("POST /upload", "upload", auth.RequireSession(http.HandlerFunc(s.handleUpload)))
	route("POST /admin/reset-usage", "reset_usage", auth.RequireAdmin(http.HandlerFunc(s.handleResetUsage)))

	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	session := auth.SessionMiddleware(s.cookieName, s.sessions, s.isAdmin)
	s.handler = s.cors(session(s.renewSession(mux)))
	s.httpServer = &http.Server{
		Addr:              opts.Config.ListenAddr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close releases the row cache when the server created it.
func (s *Server) Close() {
	if s.ownsCache {
		s.cache.Close()
	}
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case err, ok := <-errCh:
		if ok {
			s.logger.Error("server error", "error", err)
			return err
		}
		return nil
	}

	// The caller's context is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	return nil
}

// cors allows credentialed requests from the configured frontend origin.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && origin == s.cfg.FrontendURL {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Cache-Control")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
