package metrics

import (
	"context"
	"net/http"
	"strconv"

	e "medportal/internal/core/domain/errors"
	"medportal/internal/core/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OUTCOME_SUCCESS = "success"
	OUTCOME_FAILURE = "failure"
)

type Metrics struct {
	HTTPRequestsTotal *prometheus.CounterVec
	AuthEventsTotal   *prometheus.CounterVec
	registry          *prometheus.Registry
}

// New creates its own registry, so several instances can live in one process.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medportal_http_requests_total",
				Help: "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		AuthEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medportal_auth_events_total",
				Help: "Total number of authentication events by event and outcome",
			},
			[]string{"event", "outcome"},
		),
		registry: registry,
	}
	registry.MustRegister(m.HTTPRequestsTotal)
	registry.MustRegister(m.AuthEventsTotal)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware labels requests with the matched chi route pattern, so URL
// parameters such as reset tokens never end up in label values.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

func (m *Metrics) RecordAuthEvent(event string, err error) {
	outcome := OUTCOME_SUCCESS
	if err != nil {
		outcome = OUTCOME_FAILURE
	}
	m.AuthEventsTotal.WithLabelValues(event, outcome).Inc()
}

type serviceWithAuthEvents[T any, S any] struct {
	metrics *Metrics
	event   string
	inner   services.Service[T, S]
}

// WithAuthEvents counts every run of inner as event with its outcome.
func WithAuthEvents[T any, S any](
	metrics *Metrics,
	event string,
	inner services.Service[T, S],
) services.Service[T, S] {
	if metrics == nil {
		panic(e.NewNilArgumentError("metrics"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &serviceWithAuthEvents[T, S]{metrics: metrics, event: event, inner: inner}
}

func (s *serviceWithAuthEvents[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	result, err = s.inner.Run(ctx, input)
	s.metrics.RecordAuthEvent(s.event, err)
	return result, err
}
