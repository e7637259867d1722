// Package httpapi exposes the journal service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/rcliao/anger-log/internal/journal"
	"github.com/rcliao/anger-log/internal/model"
	"github.com/rcliao/anger-log/internal/store"
)

// Config holds HTTP server configuration.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	AnalyzeRate     float64 // requests/second per client; <= 0 disables limiting
}

// Server provides the HTTP endpoints.
type Server struct {
	echo    *echo.Echo
	svc     *journal.Service
	logger  *zap.Logger
	metrics *Metrics
	config  *Config
}

// NewServer creates a new HTTP server.
func NewServer(svc *journal.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("journal service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Addr: ":8080", ShutdownTimeout: 10 * time.Second}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		svc:     svc,
		logger:  logger,
		metrics: NewMetrics(),
		config:  cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID()}))
	e.Use(s.metrics.Middleware())
	e.Use(s.requestLogger())

	s.registerRoutes()
	return s, nil
}

// newRequestID returns a ULID generator safe for concurrent requests.
func newRequestID() func() string {
	var mu sync.Mutex
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			s.logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	}
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := s.echo.Group("/api")
	api.POST("/anger-records", s.handleCreate)
	api.GET("/anger-records", s.handleList)
	api.GET("/anger-records/range/:startDate/:endDate", s.handleRange)
	api.GET("/anger-records/:id", s.handleGet)
	api.GET("/stats", s.handleStats)
	api.GET("/trends", s.handleTrends)
	api.GET("/distortion-types", s.handleDistortionTypes)

	if s.config.AnalyzeRate > 0 {
		limiter := middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(s.config.AnalyzeRate),
				Burst:     int(s.config.AnalyzeRate) + 1,
				ExpiresIn: 3 * time.Minute,
			}),
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many analyze requests")
			},
		})
		api.POST("/analyze-distortions", s.handleAnalyze, limiter)
	} else {
		api.POST("/analyze-distortions", s.handleAnalyze)
	}
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.config.Addr))
		if err := s.echo.Start(s.config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	return s.echo.Shutdown(shutdownCtx)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Message string               `json:"message"`
	Fields  []journal.FieldError `json:"fields,omitempty"`
}

// AnalyzeRequest is the request body for POST /api/analyze-distortions.
type AnalyzeRequest struct {
	Thoughts  string `json:"thoughts"`
	Situation string `json:"situation"`
	Evidence  string `json:"evidence"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleCreate(c echo.Context) error {
	var cand model.Candidate
	if err := c.Bind(&cand); err != nil {
		s.logger.Warn("invalid record payload", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: "Invalid record data"})
	}

	rec, err := s.svc.Create(c.Request().Context(), cand)
	if err != nil {
		return s.toHTTPError(err, "Invalid record data", "Failed to create record")
	}

	s.metrics.RecordsCreatedTotal.Inc()
	s.metrics.ObserveFindings("record", rec.DetectedDistortions)
	return c.JSON(http.StatusCreated, rec)
}

func (s *Server) handleList(c echo.Context) error {
	limit, err := queryInt(c, "limit", store.DefaultListLimit)
	if err != nil {
		return err
	}
	if limit == 0 {
		limit = store.DefaultListLimit
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}

	records, err := s.svc.List(c.Request().Context(), limit, offset)
	if err != nil {
		return s.toHTTPError(err, "Invalid pagination", "Failed to fetch records")
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleGet(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid record id",
			Fields:  []journal.FieldError{{Field: "id", Message: "must be an integer"}},
		})
	}

	rec, err := s.svc.Get(c.Request().Context(), id)
	if err != nil {
		return s.toHTTPError(err, "Invalid record id", "Failed to fetch record")
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handleRange(c echo.Context) error {
	records, err := s.svc.Range(c.Request().Context(), c.Param("startDate"), c.Param("endDate"))
	if err != nil {
		return s.toHTTPError(err, "Invalid date range", "Failed to fetch records by date range")
	}
	return c.JSON(http.StatusOK, records)
}

func (s *Server) handleStats(c echo.Context) error {
	st, err := s.svc.Stats(c.Request().Context())
	if err != nil {
		return s.toHTTPError(err, "", "Failed to fetch stats")
	}
	return c.JSON(http.StatusOK, st)
}

func (s *Server) handleTrends(c echo.Context) error {
	tr, err := s.svc.Trends(c.Request().Context())
	if err != nil {
		return s.toHTTPError(err, "", "Failed to fetch trends")
	}
	return c.JSON(http.StatusOK, tr)
}

func (s *Server) handleAnalyze(c echo.Context) error {
	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: "Invalid analyze request"})
	}

	findings := s.svc.Analyze(req.Thoughts, req.Situation, req.Evidence)
	s.metrics.ObserveFindings("analyze", findings)
	return c.JSON(http.StatusOK, findings)
}

func (s *Server) handleDistortionTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, s.svc.Categories())
}

// toHTTPError maps service errors onto status codes.
func (s *Server) toHTTPError(err error, invalidMsg, failMsg string) error {
	var verr *journal.ValidationError
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{Message: invalidMsg, Fields: verr.Fields})
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, ErrorResponse{Message: "Record not found"})
	default:
		s.logger.Error(failMsg, zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, ErrorResponse{Message: failMsg})
	}
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid pagination",
			Fields:  []journal.FieldError{{Field: name, Message: "must be an integer"}},
		})
	}
	return n, nil
}
