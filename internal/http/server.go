package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitter/internal/core"
	"splitter/internal/i18n"
	"splitter/internal/log"
	"splitter/internal/metrics"
	"splitter/internal/middleware/ratelimit"
	"splitter/internal/middleware/security"
	"splitter/internal/middleware/trace"
	appweb "splitter/web"
)

// LedgerService is what the handlers need from the finance service.
type LedgerService interface {
	Load(ctx context.Context) error
	Add(ctx context.Context, kind core.FinanceType, label, value string) error
	EditLabel(ctx context.Context, kind core.FinanceType, index int, label string) error
	Delete(ctx context.Context, kind core.FinanceType, index int) error
	Summary() core.Summary
	Ledger() core.Ledger
	View() (core.Ledger, core.Summary)
	Save(ctx context.Context) error
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures a Server. Only Addr and Service are required.
type Options struct {
	Addr    string
	Service LedgerService

	// Store is checked by /readyz when set.
	Store Pinger

	Logger  *log.Logger
	Metrics *metrics.Metrics
	// Gatherer backs /metrics; nil leaves the route unmounted.
	Gatherer prometheus.Gatherer

	RateLimitPerMinute int
}

// Server is the ledger web server.
type Server struct {
	http.Server
	service     LedgerService
	store       Pinger
	templates   *template.Template
	logger      *log.Logger
	rateLimiter *ratelimit.Limiter
	started     time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
// A template parse failure is logged and reported by /readyz.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		Server: http.Server{
			Addr:              opts.Addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		service: opts.Service,
		store:   opts.Store,
		logger:  logger,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
		started: time.Now(),
	}

	t, err := parseTemplates()
	if err != nil {
		logger.WithComponent(log.ComponentTemplate).Warn("Failed parsing templates", log.FieldError, err.Error())
	}
	s.templates = t

	s.Handler = s.routes(opts)
	return s
}

func (s *Server) routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(log.Middleware(s.logger))
	r.Use(trace.NewMiddleware(security.ClientIP, s.logger, opts.Metrics).Handler)
	r.Use(security.Headers(security.DefaultHeadersConfig()))
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/ledger", s.handleAPILedger)
		r.Get("/summary", s.handleAPISummary)
	})

	r.Post("/calculate", s.handleCalculate)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimiter.Middleware(security.ClientIP, s.handleRateLimited))
		r.Post("/save", s.handleSave)
		r.Post("/reload", s.handleReload)

		r.Route("/{kind}", func(r chi.Router) {
			r.Post("/", s.handleAddItem)
			r.Post("/{index}/label", s.handleEditLabel)
			r.Post("/{index}/delete", s.handleDeleteItem)
			r.Delete("/{index}", s.handleDeleteItem)
		})
	})

	return r
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, security.ClientIP(r),
		log.FieldPath, r.URL.Path)
	tooManyRequests(i18n.FromRequest(r).T("Too many requests, slow down.")).write(w)
}

// Shutdown stops the rate limiter and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(s.rateLimiter.Stop)
	return s.Server.Shutdown(ctx)
}
