// Package metrics exposes observability hooks for the state store, its
// persistence backend and the API client. The default is a no-op; a
// Prometheus implementation is provided for long-running processes and for
// textfile export from one-shot CLI runs.
package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// LoadOutcome labels the result of reading the persisted snapshot.
type LoadOutcome string

const (
	LoadFound   LoadOutcome = "found"
	LoadEmpty   LoadOutcome = "empty"
	LoadCorrupt LoadOutcome = "corrupt"
	LoadError   LoadOutcome = "error"
)

// Recorder defines observability hooks. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// IncMutation counts a mutator call; applied is false for no-ops such as
	// an unknown milestone id.
	IncMutation(name string, applied bool)
	IncPersist(result ResultLabel)
	IncLoad(outcome LoadOutcome)
	SetListeners(n int)
	SetHistoryLength(n int)
	ObserveAPICall(op string, d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncMutation(string, bool)                    {}
func (NoopRecorder) IncPersist(ResultLabel)                      {}
func (NoopRecorder) IncLoad(LoadOutcome)                         {}
func (NoopRecorder) SetListeners(int)                            {}
func (NoopRecorder) SetHistoryLength(int)                        {}
func (NoopRecorder) ObserveAPICall(string, time.Duration, bool) {}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
