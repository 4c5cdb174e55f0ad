package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counters(t *testing.T) {
	pr := NewPrometheusRecorder(prom.NewRegistry())

	pr.IncMutation("toggle_theme", true)
	pr.IncMutation("toggle_theme", true)
	pr.IncMutation("update_milestone_progress", false)
	pr.IncPersist(ResultFailure)
	pr.IncLoad(LoadCorrupt)
	pr.SetListeners(3)
	pr.SetHistoryLength(42)
	pr.ObserveAPICall("check_health", 20*time.Millisecond, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.mutations.WithLabelValues("toggle_theme", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.mutations.WithLabelValues("update_milestone_progress", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.persists.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.loads.WithLabelValues("corrupt")))
	assert.Equal(t, 3.0, testutil.ToFloat64(pr.listeners))
	assert.Equal(t, 42.0, testutil.ToFloat64(pr.historyLength))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.apiResults.WithLabelValues("check_health", "success")))
}

func TestPrometheusRecorder_NilRegistry(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	require.NotNil(t, pr.Registry())
	pr.IncPersist(ResultSuccess)

	mfs, err := pr.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncMutation("login", true)

	path := filepath.Join(t.TempDir(), "waypoint.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `waypoint_store_mutations_total{applied="true",mutation="login"} 1`)
}

func TestOrNoop(t *testing.T) {
	assert.Equal(t, NoopRecorder{}, OrNoop(nil))
	pr := NewPrometheusRecorder(nil)
	assert.Same(t, pr, OrNoop(pr))
}
