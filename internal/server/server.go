// Package server exposes the estimator over HTTP with JSON responses and
// Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/montecarlo"
)

const (
	// DefaultSamples is used when a request omits the samples parameter.
	DefaultSamples int64 = 1_000_000
	// DefaultRequestTimeout bounds a single estimation.
	DefaultRequestTimeout = 30 * time.Second
	shutdownTimeout       = 5 * time.Second
)

// EstimateResponse is the JSON body of a successful /estimate request.
// Estimate is null and the error fields are omitted when no samples were
// drawn.
type EstimateResponse struct {
	Method     string   `json:"method"`
	Samples    int64    `json:"samples"`
	Workers    int      `json:"workers"`
	Matched    int64    `json:"matched"`
	Defined    bool     `json:"defined"`
	Estimate   *float64 `json:"estimate"`
	AbsError   *float64 `json:"abs_error,omitempty"`
	StdError   *float64 `json:"std_error,omitempty"`
	DurationMs float64  `json:"duration_ms"`
	Seed       *uint64  `json:"seed,omitempty"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Server serves estimations over HTTP.
type Server struct {
	addr           string
	factory        *montecarlo.MethodFactory
	metrics        *Metrics
	logger         logging.Logger
	security       SecurityConfig
	requestTimeout time.Duration
	startTime      time.Time
	httpServer     *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option { return func(s *Server) { s.logger = l } }

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(c SecurityConfig) Option { return func(s *Server) { s.security = c } }

// WithRequestTimeout bounds each estimation.
func WithRequestTimeout(d time.Duration) Option { return func(s *Server) { s.requestTimeout = d } }

// NewServer creates a server listening on addr that runs the methods of
// factory.
func NewServer(addr string, factory *montecarlo.MethodFactory, opts ...Option) *Server {
	s := &Server{
		addr:           addr,
		factory:        factory,
		metrics:        NewMetrics(),
		logger:         logging.NewNopLogger(),
		security:       DefaultSecurityConfig(),
		requestTimeout: DefaultRequestTimeout,
		startTime:      time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with security and metrics middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/estimate", s.wrap(s.handleEstimate))
	mux.HandleFunc("/health", s.wrap(s.handleHealth))
	mux.HandleFunc("/metrics", s.wrap(s.handleMetrics))
	return mux
}

func (s *Server) wrap(h http.HandlerFunc) http.HandlerFunc {
	return SecurityMiddleware(s.security, s.metricsMiddleware(h))
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.String("addr", s.addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
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

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.RecordRequest(r.URL.Path, rec.status)
	}
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.startTime).Round(time.Second).String(),
		"methods": s.factory.List(),
	})
}

// estimateParams are the parsed query parameters of /estimate.
type estimateParams struct {
	samples int64
	workers int
	method  string
	seed    *uint64
}

func (s *Server) parseEstimateParams(r *http.Request) (estimateParams, error) {
	q := r.URL.Query()
	p := estimateParams{samples: DefaultSamples, method: montecarlo.MethodParallel}

	if v := q.Get("samples"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return p, apperrors.NewValidationError("samples", "must be an integer, got %q", v)
		}
		p.samples = n
	}
	if p.samples < 0 {
		return p, apperrors.NewValidationError("samples", "must be non-negative, got %d", p.samples)
	}
	if s.security.MaxSamples > 0 && p.samples > s.security.MaxSamples {
		return p, apperrors.NewValidationError("samples", "exceeds the limit of %d", s.security.MaxSamples)
	}

	p.workers = config.EstimateOptimalWorkers(p.samples)
	if v := q.Get("workers"); v != "" {
		w, err := strconv.Atoi(v)
		if err != nil || w < 1 {
			return p, apperrors.NewValidationError("workers", "must be a positive integer, got %q", v)
		}
		p.workers = w
	}
	if s.security.MaxWorkers > 0 && p.workers > s.security.MaxWorkers {
		return p, apperrors.NewValidationError("workers", "exceeds the limit of %d", s.security.MaxWorkers)
	}

	if v := q.Get("method"); v != "" {
		p.method = v
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return p, apperrors.NewValidationError("seed", "must be an unsigned integer, got %q", v)
		}
		p.seed = &seed
	}
	return p, nil
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only GET is supported")
		return
	}
	p, err := s.parseEstimateParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return
	}

	factory := s.factory
	if p.seed != nil {
		// A seeded request gets its own source so that it is reproducible
		// regardless of other traffic.
		factory = montecarlo.NewDefaultFactory(montecarlo.NewFixedSeedSource(*p.seed))
	}
	method, err := factory.Get(p.method)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "unknown_method", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	start := time.Now()
	res, err := method.Run(ctx, nil, p.samples, p.workers)
	duration := time.Since(start)
	if err != nil {
		s.logger.Error("estimation failed", err,
			logging.String("method", p.method), logging.Int64("samples", p.samples))
		switch {
		case apperrors.IsValidationError(err):
			s.writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			s.writeError(w, http.StatusGatewayTimeout, "timeout", "estimation exceeded "+s.requestTimeout.String())
		default:
			s.writeError(w, http.StatusInternalServerError, "estimation_failed", err.Error())
		}
		return
	}

	est := res.Estimate
	resp := EstimateResponse{
		Method:     p.method,
		Samples:    est.Total,
		Workers:    res.Partition.WorkerCount,
		Matched:    est.Matched,
		Defined:    est.Defined,
		DurationMs: float64(duration.Microseconds()) / 1000,
		Seed:       p.seed,
	}
	if est.Defined {
		value, absErr, stdErr := est.Value, est.AbsError(math.Pi), est.StdError()
		resp.Estimate, resp.AbsError, resp.StdError = &value, &absErr, &stdErr
		s.metrics.RecordEstimate(p.method, duration, est.Total, absErr)
	}
	s.logger.Debug("estimation served",
		logging.String("method", p.method), logging.Int64("samples", est.Total), logging.Duration("duration", duration))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && s.logger != nil {
		s.logger.Error("failed to encode response", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}
