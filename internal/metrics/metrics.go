// Package metrics exposes Prometheus collectors for the dashboard API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/hostel-dashboard/internal/application"
)

const namespace = "hostel"

// Registry owns the collectors and the registry they are exposed from.
type Registry struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec
	mutations *prometheus.CounterVec
	logins    *prometheus.CounterVec
}

// NewRegistry builds a registry with the API collectors plus the Go runtime
// and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Domain store mutations by operation and result.",
		}, []string{"operation", "result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_total",
			Help:      "Login attempts by role and result.",
		}, []string{"role", "result"}),
	}
	r.registry.MustRegister(
		r.requests,
		r.durations,
		r.mutations,
		r.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler serves the exposition format for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRequest records one served request. route is the registered pattern,
// not the raw path, to keep label cardinality bounded.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.durations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveMutation implements application.Observer.
func (r *Registry) ObserveMutation(operation string, err error) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(operation, result(err)).Inc()
}

// ObserveLogin implements application.Observer.
func (r *Registry) ObserveLogin(role application.Role, succeeded bool) {
	if r == nil {
		return
	}
	label := string(role)
	if _, ok := application.ParseRole(label); !ok {
		label = "unknown"
	}
	outcome := "failure"
	if succeeded {
		outcome = "success"
	}
	r.logins.WithLabelValues(label, outcome).Inc()
}

func result(err error) string {
	if err == nil {
		return "success"
	}
	return application.ErrorKind(err)
}

var _ application.Observer = (*Registry)(nil)
