package http

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finsafe/internal/log"
	"finsafe/internal/middleware/ratelimit"
	"finsafe/internal/middleware/security"
	"finsafe/internal/middleware/trace"
	"finsafe/internal/services"
	"finsafe/internal/session"
	appweb "finsafe/web"
)

const (
	defaultAPITimeout = 7 * time.Second
	defaultAuthPerMin = 10
	staticMaxAge      = 3600
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server is built from.
type Deps struct {
	Sessions *session.Manager
	Auth     *services.AuthService
	Txs      *services.TransactionService
	Notes    *services.NotesService
	Reports  *services.ReportService
	// API is pinged by /readyz; nil skips the check.
	API    Pinger
	Logger *log.Logger

	RateLimitPerMinute     int
	AuthRateLimitPerMinute int
	APITimeout             time.Duration
	TrustedProxies         []string
}

// Server is the FinSafe web front end.
type Server struct {
	http.Server

	sessions   *session.Manager
	auth       *services.AuthService
	txs        *services.TransactionService
	notes      *services.NotesService
	reports    *services.ReportService
	api        Pinger
	logger     *log.Logger
	events     *log.StructuredLogger
	templates  *template.Template
	limiter    *ratelimit.Limiter
	detector   *security.Detector
	tracer     *trace.Middleware
	apiTimeout time.Duration
	startedAt  time.Time
	now        func() time.Time
}

// NewServer parses the embedded templates and mounts every route. A
// template parse failure is logged and every page then answers 500.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	if deps.APITimeout <= 0 {
		deps.APITimeout = defaultAPITimeout
	}
	if deps.AuthRateLimitPerMinute <= 0 {
		deps.AuthRateLimitPerMinute = defaultAuthPerMin
	}

	s := &Server{
		sessions:   deps.Sessions,
		auth:       deps.Auth,
		txs:        deps.Txs,
		notes:      deps.Notes,
		reports:    deps.Reports,
		api:        deps.API,
		logger:     logger.WithComponent(log.ComponentHTTP),
		apiTimeout: deps.APITimeout,
		startedAt:  time.Now(),
		now:        time.Now,
	}
	s.events = log.NewStructuredLogger(s.logger)

	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.WithComponent(log.ComponentTemplate).Error("Failed to parse templates", log.FieldError, err)
	} else {
		s.templates = tmpl
	}

	s.detector = security.NewDetector()
	for _, cidr := range deps.TrustedProxies {
		if err := s.detector.AddTrustedProxy(strings.TrimSpace(cidr)); err != nil {
			s.logger.Warn("Ignoring trusted proxy", "cidr", cidr, log.FieldError, err)
		}
	}
	s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute})
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	s.Addr = addr
	s.Handler = s.routes(deps.AuthRateLimitPerMinute)
	s.ReadHeaderTimeout = 5 * time.Second
	s.ReadTimeout = 15 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	return s
}

func (s *Server) routes(authPerMinute int) http.Handler {
	r := chi.NewRouter()
	r.Use(s.tracer.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware(s.logger))
	r.NotFound(s.handleNotFound)

	// Probes stay reachable while a client is throttled.
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	if static, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		r.With(security.StaticAssetMiddleware(staticMaxAge)).
			Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	}

	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware(s.detector.ExtractClientIP, nil))

		r.Get("/", s.handleIndex)
		r.Get("/login", s.handleLoginPage)
		r.Get("/register", s.handleRegisterPage)
		r.Get("/settings/confirm-name", s.handleConfirmName)
		r.Post("/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(ratelimit.AuthLimit(authPerMinute, time.Minute, s.detector.ExtractClientIP, nil))
			r.Post("/login", s.handleLogin)
			r.Post("/register", s.handleRegister)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireUser, security.NoStore)

			r.Get("/dashboard", s.handleDashboard)
			r.Get("/ui/summary", s.handleSummary)
			r.Get("/ui/transactions", s.handleTransactions)
			r.Get("/ui/analytics", s.handleAnalytics)
			r.Get("/ui/transactions/new", s.handleTransactionForm)
			r.Post("/transactions", s.handleCreateTransaction)
			r.Get("/report", s.handleReport)

			r.Get("/ui/notes", s.handleNotes)
			r.Get("/ui/notes/new", s.handleNewNote)
			r.Get("/ui/notes/{id}/edit", s.handleEditNote)
			r.Post("/notes", s.handleCreateNote)
			r.Put("/notes/{id}", s.handleUpdateNote)
			r.Delete("/notes/{id}", s.handleDeleteNote)

			r.Get("/settings", s.handleSettingsPage)
			r.Post("/settings", s.handleSettings)
		})
	})
	return r
}

// Shutdown stops accepting requests and releases the limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	stats := s.tracer.GetStats()
	s.logger.Info("HTTP server stopping",
		log.FieldOperation, log.OpShutdown,
		"total_requests", stats.TotalRequests,
		"active_clients", s.limiter.ActiveClients())
	return s.Server.Shutdown(ctx)
}

// execute renders a named template into memory so a failure never leaves
// half a page on the wire.
func (s *Server) execute(name string, data any) ([]byte, error) {
	if s.templates == nil {
		return nil, fmt.Errorf("templates not loaded")
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// render writes a template with status, or a 500 when rendering fails.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	body, err := s.execute(name, data)
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	NewHTMXResponse().Status(status).Body(body).Write(w)
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	s.events.LogError(r.Context(), "Template rendering failed", err, log.OpRender,
		log.NewFields().WithRequestID(trace.GetRequestID(r.Context())))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// apiContext bounds the upstream calls made while serving r.
func (s *Server) apiContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.apiTimeout)
}
