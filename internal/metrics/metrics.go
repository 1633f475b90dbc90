package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"Wavecrest/internal/domain"
	"Wavecrest/internal/ports"
)

// Recorder counts sync runs and per-item outcomes on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	items    *prometheus.CounterVec
	unknown  *prometheus.CounterVec
	runs     *prometheus.CounterVec
}

var _ ports.SyncRecorder = (*Recorder)(nil)

// NewRecorder registers the sync collectors plus the Go runtime collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		items: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wavecrest",
			Subsystem: "sync",
			Name:      "items_total",
			Help:      "Remote items processed by the syncs, by kind and result.",
		}, []string{"kind", "result"}),
		unknown: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wavecrest",
			Subsystem: "sync",
			Name:      "unknown_status_total",
			Help:      "Remote items whose status had no local mapping.",
		}, []string{"kind", "status"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wavecrest",
			Subsystem: "sync",
			Name:      "runs_total",
			Help:      "Sync and scan runs started, by job.",
		}, []string{"job"}),
	}
	r.registry.MustRegister(
		r.items, r.unknown, r.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRun counts one started run of job.
func (r *Recorder) ObserveRun(job string) {
	r.runs.WithLabelValues(job).Inc()
}

// ObserveOutcome counts one item outcome.
func (r *Recorder) ObserveOutcome(o domain.Outcome) {
	r.items.WithLabelValues(o.Kind, string(o.Result)).Inc()
	if o.UnknownStatus != "" {
		r.unknown.WithLabelValues(o.Kind, o.UnknownStatus).Inc()
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
