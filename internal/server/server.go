// Package server exposes the payoff engine, presets, strategy store and quotes over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"optionlab/internal/logging"
	"optionlab/internal/models"
	"optionlab/internal/presets"
	"optionlab/internal/resilience"
	"optionlab/internal/store"
)

// QuoteFetcher returns the latest quote for a symbol.
type QuoteFetcher interface {
	Fetch(ctx context.Context, symbol string) (*models.Quote, error)
}

// Options configures a Server. Store and Quotes may be nil, in which case the
// matching endpoints answer 503.
type Options struct {
	Store       store.StrategyStore
	Quotes      QuoteFetcher
	Samples     int
	DefaultBase float64
	Logger      zerolog.Logger
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	router  *mux.Router
	store   store.StrategyStore
	quotes  QuoteFetcher
	health  *resilience.HealthMonitor
	logger  zerolog.Logger
	samples int
	base    float64
}

// New creates a Server with every route registered.
func New(opts Options) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		store:   opts.Store,
		quotes:  opts.Quotes,
		health:  resilience.NewHealthMonitor(),
		logger:  opts.Logger.With().Str("component", "server").Logger(),
		samples: opts.Samples,
		base:    opts.DefaultBase,
	}
	if s.base <= 0 {
		s.base = presets.DefaultBasePrice
	}

	if s.store != nil {
		s.health.RegisterComponent("store", resilience.DatabaseHealthCheck(s.store.Ping))
	}
	if b, ok := s.quotes.(interface{ Breaker() *resilience.CircuitBreaker }); ok {
		s.health.RegisterComponent("quotes", resilience.BreakerHealthCheck(b.Breaker()))
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/getprice", s.handleGetPrice).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/presets", s.handlePresets).Methods(http.MethodGet)
	api.HandleFunc("/strategies", s.handleListStrategies).Methods(http.MethodGet)
	api.HandleFunc("/strategies", s.handleCreateStrategy).Methods(http.MethodPost)
	api.HandleFunc("/strategies/{id}", s.handleGetStrategy).Methods(http.MethodGet)
	api.HandleFunc("/strategies/{id}", s.handleUpdateStrategy).Methods(http.MethodPut)
	api.HandleFunc("/strategies/{id}", s.handleDeleteStrategy).Methods(http.MethodDelete)
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, cfg HTTPConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", cfg.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		logger := s.logger.With().Str("request_id", requestID).Logger()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logging.WithLogger(r.Context(), logger)))
		logging.LogRequest(logger, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
