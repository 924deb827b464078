package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes recorded by LoginAttempt.
const (
	LoginSucceeded = "success"
	LoginRejected  = "rejected"
	LoginInvalid   = "invalid"
	LoginError     = "error"
)

// Product fetch outcomes recorded by ProductFetch.
const (
	FetchOK    = "ok"
	FetchError = "error"
)

// Metrics owns a private registry so several servers can coexist in one process (tests).
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	loginAttempts  *prometheus.CounterVec
	productFetches *prometheus.CounterVec
	requests       *prometheus.HistogramVec
}

// New registers the portal collectors plus the Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "login_attempts_total",
			Help:      "Login form submissions by outcome.",
		}, []string{"outcome"}),
		productFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "product_fetches_total",
			Help:      "Product list loads by outcome.",
		}, []string{"outcome"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.loginAttempts,
		m.productFetches,
		m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// LoginAttempt counts one login submission.
func (m *Metrics) LoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// ProductFetch counts one product list load.
func (m *Metrics) ProductFetch(outcome string) {
	if m == nil {
		return
	}
	m.productFetches.WithLabelValues(outcome).Inc()
}

// ObserveRequest records request latency.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
