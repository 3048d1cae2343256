package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"runclub/internal/core"
	applog "runclub/internal/log"
	"runclub/internal/middleware/ratelimit"
	"runclub/internal/middleware/security"
	"runclub/internal/middleware/trace"
	"runclub/internal/pages"
	appweb "runclub/web"
)

// Identity is the login, sign-up and logout glue around the stored user name.
type Identity interface {
	pages.NameReader
	Login(ctx context.Context, email string) (string, error)
	Signup(ctx context.Context, fullName string, pledgeAccepted bool) error
	Clear(ctx context.Context) error
}

// Options are the collaborators and settings of a Server.
type Options struct {
	Addr     string
	Ledger   pages.RunLedger
	Identity Identity
	// Ready reports whether the backing store is usable. Nil means always ready.
	Ready              func(ctx context.Context) error
	Logger             *applog.Logger
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	templates *template.Template
	pages     *pages.Set
	tracker   *pages.TrackerPage
	identity  Identity
	ready     func(ctx context.Context) error
	logger    *applog.Logger
	limiter   *ratelimit.Limiter
	detector  *security.Detector
	tracer    *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(opts Options) (*Server, error) {
	if opts.Ledger == nil || opts.Identity == nil {
		return nil, fmt.Errorf("new server: ledger and identity are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	tracker := pages.NewTracker(opts.Ledger, opts.Identity)
	s := &Server{
		templates: t,
		tracker:   tracker,
		pages: pages.NewSet(
			tracker,
			pages.NewDashboard(opts.Ledger, opts.Identity),
			pages.NewLeaderboard(opts.Ledger, opts.Identity),
		),
		identity: opts.Identity,
		ready:    opts.Ready,
		logger:   logger.WithComponent(applog.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector: security.NewDetector(logger),
		tracer:   trace.NewMiddleware(logger, security.ClientIP),
	}

	mux := http.NewServeMux()

	sub, err := fs.Sub(appweb.StaticFS, "static")
	if err != nil {
		s.limiter.Stop()
		return nil, fmt.Errorf("mount static assets: %w", err)
	}
	static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
	mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	for _, id := range pages.IDs {
		mux.HandleFunc("GET /"+string(id), s.handlePage(id))
	}
	mux.HandleFunc("POST /tracker", s.handleLogRun)

	mux.HandleFunc("GET /login", s.handleForm(pageLogin))
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /signup", s.handleForm(pageSignup))
	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("GET /logout", s.handleLogout)

	headers := security.NewHeaders(security.DefaultHeadersConfig())
	limit := s.limiter.Middleware(security.ClientIP, nil, http.MethodPost)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           s.tracer.Middleware(s.detector.Middleware(headers.Middleware(limit(mux)))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Shutdown stops background work and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.logger.InfoContext(ctx, "Server traffic",
			"requests", s.tracer.Total(),
			"rate_limited", s.limiter.Hits(),
			"tracked_clients", s.limiter.ActiveClients(),
			"suspicious", s.detector.Count())
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", applog.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// pledgeOption is one entry of the tracker's pledge select.
type pledgeOption struct {
	Value, Label string
}

var pledgeOptions = []pledgeOption{
	{core.PledgeNone, "No pledge"},
	{"FoodBank", "Food Bank"},
	{"ReliefFund", "Relief Fund"},
	{"CleanWater", "Clean Water"},
}

// pageData is what the host templates need. Everything run-related is
// patched in afterwards by the page controllers.
type pageData struct {
	Title    string
	Page     string
	Pledges  []pledgeOption
	Distance string
	Error    string
}

var pageTitles = map[string]string{
	string(pages.Tracker):     "Run Tracker",
	string(pages.Dashboard):   "My Impact",
	string(pages.Leaderboard): "Leaderboard",
	pageLogin:                 "Login",
	pageSignup:                "Sign Up",
}

const (
	pageLogin  = "login"
	pageSignup = "signup"
)

func newPageData(page string) pageData {
	return pageData{Title: pageTitles[page], Page: page, Pledges: pledgeOptions}
}
