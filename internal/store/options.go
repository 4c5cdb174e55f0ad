package store

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/waypoint/internal/metrics"
)

// Option configures a Manager.
type Option func(*Manager)

// WithHistoryLimit caps retained progress history. Non-positive values
// disable the cap.
func WithHistoryLimit(n int) Option {
	return func(m *Manager) { m.historyLimit = n }
}

// WithClock replaces time.Now for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.clock = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

func WithRecorder(r metrics.Recorder) Option {
	return func(m *Manager) { m.recorder = metrics.OrNoop(r) }
}
