// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers API-level Prometheus metrics.
type Collector struct {
	loginSuccess    prometheus.Counter
	loginFail       prometheus.Counter
	signupTotal     prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
	catalogServed   prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics on the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dreamland_login_success_total",
			Help: "Total number of successful logins.",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dreamland_login_fail_total",
			Help: "Total number of failed logins.",
		}),
		signupTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dreamland_signup_total",
			Help: "Total number of signups.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dreamland_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dreamland_request_duration_seconds",
			Help:    "Request handling latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		catalogServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dreamland_catalog_served_total",
			Help: "Total number of catalog feed responses.",
		}),
	}

	reg.MustRegister(
		c.loginSuccess,
		c.loginFail,
		c.signupTotal,
		c.httpStatus,
		c.requestDuration,
		c.catalogServed,
	)

	return c
}

// RecordLogin counts a login attempt by outcome.
func (c *Collector) RecordLogin(ok bool) {
	if ok {
		c.loginSuccess.Inc()
	} else {
		c.loginFail.Inc()
	}
}

// RecordSignup counts a signup.
func (c *Collector) RecordSignup() {
	c.signupTotal.Inc()
}

// RecordCatalogServed counts a served catalog feed response.
func (c *Collector) RecordCatalogServed() {
	c.catalogServed.Inc()
}

// Middleware instruments every request with status and duration metrics.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		c.httpStatus.WithLabelValues(strconv.Itoa(rec.status)).Inc()
		c.requestDuration.Observe(time.Since(start).Seconds())
	})
}

// Handler returns the /metrics endpoint for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
