package metrics

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObservePoll(t *testing.T) {
	m := New()
	m.ObservePoll(nil, 20*time.Millisecond, 3)
	m.ObservePoll(errors.New("boom"), 5*time.Millisecond, 0)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest("GET", "/metrics", nil))

	body := recorder.Body.String()
	require.Contains(t, body, "tasklab_poll_successes_total 1")
	require.Contains(t, body, "tasklab_poll_failures_total 1")
	require.Contains(t, body, "tasklab_tasks_in_cache 3")
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObservePoll(nil, time.Millisecond, 1)
	})
	require.NotNil(t, m.Handler())
}
