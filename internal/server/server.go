// Package server exposes the alert board, the directory and the assistant
// over HTTP for the web front end.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"schoolhub/internal/admin"
	"schoolhub/internal/alerts"
	"schoolhub/internal/assistant"
	"schoolhub/internal/config"
	"schoolhub/internal/logging"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Options wires a Server. Board, Source and Config are required.
type Options struct {
	Config *config.Config
	Board  *alerts.Board
	Source alerts.Source

	// Assistant is nil when no API key is configured.
	Assistant *assistant.Client

	// Gate defaults to one built from Config.Admin.Password.
	Gate *admin.Gate

	// Registerer and Gatherer back /metrics. Nil disables it.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Now func() time.Time
}

// Server is the hub HTTP surface.
type Server struct {
	cfg       *config.Config
	board     *alerts.Board
	source    alerts.Source
	assistant *assistant.Client
	gate      *admin.Gate
	limiter   *rate.Limiter
	now       func() time.Time

	requests *prometheus.CounterVec

	mu       sync.Mutex
	convs    map[string]*convEntry
	convIdle time.Duration
	maxConvs int

	router *mux.Router
}

// New builds a Server and its routes.
func New(opts Options) (*Server, error) {
	if opts.Config == nil || opts.Board == nil || opts.Source == nil {
		return nil, errors.New("server: config, board and source are required")
	}

	s := &Server{
		cfg:       opts.Config,
		board:     opts.Board,
		source:    opts.Source,
		assistant: opts.Assistant,
		gate:      opts.Gate,
		now:       opts.Now,
		convs:     make(map[string]*convEntry),
		convIdle:  conversationIdle,
		maxConvs:  maxConversations,
	}
	if s.gate == nil {
		s.gate = admin.NewGate(opts.Config.Admin.Password, 0)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if r := opts.Config.Server.AssistantRate; r > 0 {
		burst := opts.Config.Server.AssistantBurst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}

	if opts.Registerer != nil {
		s.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "schoolhub",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route, method and status code.",
		}, []string{"route", "method", "code"})
		if err := opts.Registerer.Register(s.requests); err != nil {
			return nil, fmt.Errorf("register http metrics: %w", err)
		}
	}

	s.router = s.routes(opts.Gatherer)
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Refresh fetches the configured sheet and applies it to the board.
func (s *Server) Refresh(ctx context.Context) alerts.Feed {
	return s.board.Refresh(ctx, s.source, s.cfg.Alerts.CSVURL)
}

// Run serves on the configured address until ctx is done, fetching the
// alert sheet once at startup.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.GetReadHeaderTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Server("listening on %s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		feed := s.Refresh(gctx)
		logging.Server("initial alert feed %s with %d alerts", feed.State, len(feed.Alerts))
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.GetShutdownTimeout())
		defer cancel()
		logging.Server("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.ServerError("shutdown: %v", err)
			return err
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) routes(gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.sessionMiddleware)

	s.handle(r, "/health", s.handleHealth, http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	s.handle(api, "/alerts", s.handleAlerts, http.MethodGet)
	s.handle(api, "/alerts/banner", s.handleBanner, http.MethodGet)
	s.handle(api, "/alerts/banner/dismiss", s.handleDismiss, http.MethodPost)
	s.handle(api, "/links", s.handleDirectories, http.MethodGet)
	s.handle(api, "/links/{directory}", s.handleLinks, http.MethodGet)
	s.handle(api, "/contacts", s.handleContacts, http.MethodGet)
	s.handle(api, "/teaser", s.handleTeaser, http.MethodGet)

	ai := api.PathPrefix("/assistant").Subrouter()
	ai.Use(s.rateLimit)
	s.handle(ai, "/chat", s.handleChatHistory, http.MethodGet)
	s.handle(ai, "/chat", s.handleChat, http.MethodPost)
	s.handle(ai, "/image", s.handleImage, http.MethodPost)

	s.handle(api, "/admin/login", s.handleLogin, http.MethodPost)
	adm := api.PathPrefix("/admin").Subrouter()
	adm.Use(s.requireAdmin)
	s.handle(adm, "/status", s.handleAdminStatus, http.MethodGet)
	s.handle(adm, "/refresh", s.handleAdminRefresh, http.MethodPost)
	s.handle(adm, "/usage", s.handleAdminUsage, http.MethodGet)
	s.handle(adm, "/logout", s.handleLogout, http.MethodPost)

	if gatherer != nil && s.cfg.Server.Metrics {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	// Subrouters report method mismatches through their own handler.
	for _, router := range []*mux.Router{r, api, ai, adm} {
		router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	}
	return r
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// handle registers fn on r and counts its requests under the full route
// template.
func (s *Server) handle(r *mux.Router, path string, fn http.HandlerFunc, method string) {
	route := r.NewRoute().Path(path).Methods(method)
	var h http.Handler = fn
	if s.requests != nil {
		tmpl, err := route.GetPathTemplate()
		if err != nil {
			tmpl = path
		}
		h = promhttp.InstrumentHandlerCounter(s.requests.MustCurryWith(prometheus.Labels{"route": tmpl}), h)
	}
	route.Handler(h)
}
