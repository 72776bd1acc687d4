package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the API.
type Metrics struct {
	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	LLMCallCounter  *prometheus.CounterVec
}

// New registers the collectors against the given registerer. Tests pass a
// private registry to avoid duplicate-registration panics.
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quicknote",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quicknote",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		LLMCallCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quicknote",
				Subsystem: "llm",
				Name:      "calls_total",
				Help:      "Total number of LLM completion calls",
			},
			[]string{"model", "outcome"},
		),
	}
}

// Middleware records per-request counts and durations, labelled by the
// registered route path rather than the raw URL.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		m.RequestCounter.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.RequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// CountLLMCall tracks one gateway call with its outcome ("ok", "error" or
// "filtered").
func (m *Metrics) CountLLMCall(model string, outcome string) {
	m.LLMCallCounter.WithLabelValues(model, outcome).Inc()
}
