// Package metrics exposes Prometheus metrics for backend operations and
// HTTP requests.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

const namespace = "storefront"

// Metrics owns a Prometheus registry and the storefront collectors.
type Metrics struct {
	registry *prometheus.Registry

	backendOps      *prometheus.CounterVec
	backendErrors   *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates a registry with the Go runtime and process collectors and
// the storefront metrics registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		backendOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "operations_total",
			Help:      "Total number of backend operations",
		}, []string{"operation"}), // get, put, delete, list

		backendErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "operation_errors_total",
			Help:      "Total number of failed backend operations, missing keys excluded",
		}, []string{"operation"}),

		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "operation_duration_seconds",
			Help:      "Backend operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}, []string{"operation"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "code"}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.backendOps,
		m.backendErrors,
		m.backendDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveRequest records one served HTTP request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Instrument wraps b so that every operation is counted and timed.
func (m *Metrics) Instrument(b types.Backend) types.Backend {
	return &instrumented{next: b, m: m}
}

type instrumented struct {
	next types.Backend
	m    *Metrics
}

func (i *instrumented) observe(op string, start time.Time, err error) {
	i.m.backendOps.WithLabelValues(op).Inc()
	i.m.backendDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil && !errors.Is(err, types.ErrKeyNotFound) {
		i.m.backendErrors.WithLabelValues(op).Inc()
	}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := i.next.Get(ctx, key)
	i.observe("get", start, err)
	return v, err
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.next.Put(ctx, key, value)
	i.observe("put", start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	i.observe("delete", start, err)
	return err
}

func (i *instrumented) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	start := time.Now()
	keys, err := i.next.ListKeys(ctx, prefix)
	i.observe("list", start, err)
	return keys, err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
