package httpapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/rcliao/anger-log/internal/model"
)

// Metrics holds Prometheus metrics for the HTTP API.
//
// Each Metrics owns its registry so servers built in tests never collide
// on registration.
//
// Metrics:
//   - angerlog_http_requests_total{method,route,status}
//   - angerlog_http_request_duration_seconds{method,route}
//   - angerlog_records_created_total
//   - angerlog_distortions_detected_total{type,source}
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	RecordsCreatedTotal prometheus.Counter
	DistortionsTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the API metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "angerlog_http_requests_total",
				Help: "Total HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "angerlog_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		RecordsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "angerlog_records_created_total",
			Help: "Journal records created",
		}),
		DistortionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "angerlog_distortions_detected_total",
				Help: "Distortion findings by category and source (record or analyze)",
			},
			[]string{"type", "source"},
		),
	}
}

// ObserveFindings counts findings for one classification.
func (m *Metrics) ObserveFindings(source string, findings []model.Finding) {
	for _, f := range findings {
		m.DistortionsTotal.WithLabelValues(string(f.Type), source).Inc()
	}
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			m.RequestsTotal.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			m.RequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
