package metrics

import (
	"net/http"
	"strconv"
	"time"

	"patient-access-portal/internal/domain/accessgrants"
	"patient-access-portal/internal/domain/policy"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

// Collector agrupa las métricas del portal en un registry propio
// (un registry por instancia: los tests pueden crear varios).
type Collector struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	grantTransition *prometheus.CounterVec
	policyDecisions *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		grantTransition: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "access_grant_transitions_total",
				Help:      "Access grant state transitions",
			},
			[]string{"from", "to"},
		),
		policyDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_decisions_total",
				Help:      "Access policy decisions by action and reason",
			},
			[]string{"action", "allowed", "reason"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.httpRequests,
		c.httpDuration,
		c.grantTransition,
		c.policyDecisions,
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Transition implementa accessgrants.TransitionObserver.
func (c *Collector) Transition(from, to accessgrants.Status) {
	if from == "" {
		from = accessgrants.StatusNone
	}
	c.grantTransition.WithLabelValues(string(from), string(to)).Inc()
}

// Decided implementa policy.DecisionObserver.
func (c *Collector) Decided(action accessgrants.Scope, d policy.Decision) {
	c.policyDecisions.WithLabelValues(string(action), strconv.FormatBool(d.Allowed), d.Reason).Inc()
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// HTTPMiddleware etiqueta por patrón de ruta chi, no por path crudo
// (los IDs de paciente no deben explotar la cardinalidad).
func (c *Collector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
