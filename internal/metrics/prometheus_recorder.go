package metrics

import (
	"fmt"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	mutations     *prom.CounterVec
	persists      *prom.CounterVec
	loads         *prom.CounterVec
	listeners     prom.Gauge
	historyLength prom.Gauge
	apiDuration   *prom.HistogramVec
	apiResults    *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers the store metrics on reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		mutations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "waypoint",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Mutator calls by name and whether they changed state",
		}, []string{"mutation", "applied"}),
		persists: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "waypoint",
			Subsystem: "store",
			Name:      "persist_total",
			Help:      "Snapshot saves by result",
		}, []string{"result"}),
		loads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "waypoint",
			Subsystem: "store",
			Name:      "load_total",
			Help:      "Snapshot loads by outcome",
		}, []string{"outcome"}),
		listeners: prom.NewGauge(prom.GaugeOpts{
			Namespace: "waypoint",
			Subsystem: "store",
			Name:      "listeners",
			Help:      "Registered store listeners",
		}),
		historyLength: prom.NewGauge(prom.GaugeOpts{
			Namespace: "waypoint",
			Subsystem: "store",
			Name:      "history_entries",
			Help:      "Retained progress history entries",
		}),
		apiDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "waypoint",
			Subsystem: "api",
			Name:      "call_duration_seconds",
			Help:      "Duration of API client calls",
			Buckets:   prom.DefBuckets,
		}, []string{"op"}),
		apiResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "waypoint",
			Subsystem: "api",
			Name:      "calls_total",
			Help:      "API client calls by operation and result",
		}, []string{"op", "result"}),
	}
	reg.MustRegister(pr.mutations, pr.persists, pr.loads, pr.listeners, pr.historyLength, pr.apiDuration, pr.apiResults)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) IncMutation(name string, applied bool) {
	p.mutations.WithLabelValues(name, strconv.FormatBool(applied)).Inc()
}

func (p *PrometheusRecorder) IncPersist(result ResultLabel) {
	p.persists.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncLoad(outcome LoadOutcome) {
	p.loads.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) SetListeners(n int) { p.listeners.Set(float64(n)) }

func (p *PrometheusRecorder) SetHistoryLength(n int) { p.historyLength.Set(float64(n)) }

func (p *PrometheusRecorder) ObserveAPICall(op string, d time.Duration, success bool) {
	p.apiDuration.WithLabelValues(op).Observe(d.Seconds())
	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	p.apiResults.WithLabelValues(op, string(result)).Inc()
}

// WriteTextfile writes all gathered metrics to path in the Prometheus text
// format, for pickup by a node_exporter textfile collector.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
