package api

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/waypoint/internal/metrics"
)

// CallEvent records metadata about a single API call.
type CallEvent struct {
	Op        string
	Status    int
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about API calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a structured logger.
type LogObserver struct {
	logger *slog.Logger
}

func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"op", e.Op,
		"status", e.Status,
		"attempts", e.Attempts,
		"latency_ms", e.LatencyMs,
	}
	if !e.Success {
		o.logger.Warn("api_call", append(attrs, "error_code", e.ErrorCode)...)
		return
	}
	o.logger.Info("api_call", attrs...)
}

// MetricsObserver feeds call durations into a metrics.Recorder.
type MetricsObserver struct {
	recorder metrics.Recorder
}

func NewMetricsObserver(r metrics.Recorder) *MetricsObserver {
	return &MetricsObserver{recorder: metrics.OrNoop(r)}
}

func (o *MetricsObserver) OnCallComplete(e CallEvent) {
	o.recorder.ObserveAPICall(e.Op, time.Duration(e.LatencyMs)*time.Millisecond, e.Success)
}

// MultiObserver fans an event out to several observers.
type MultiObserver []Observer

func (m MultiObserver) OnCallComplete(e CallEvent) {
	for _, o := range m {
		if o != nil {
			o.OnCallComplete(e)
		}
	}
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
