package lib

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.UpdateHeight(1, time.Second)
		m.MessageApplied("vote")
		m.MessageFailed("vote", ErrNodeStopped())
	})
	require.NoError(t, m.Start(context.Background()))
}

func TestMetricsDisabled(t *testing.T) {
	m := NewMetricsServer(MetricsConfig{Enabled: false, PrometheusAddress: "127.0.0.1:0"}, NewNullLogger())
	require.NoError(t, m.Start(context.Background()))
}

func TestMetricsHandler(t *testing.T) {
	// two servers in one process keep separate registries
	_ = NewMetricsServer(DefaultMetricsConfig(), NewNullLogger())
	m := NewMetricsServer(DefaultMetricsConfig(), NewNullLogger())
	m.UpdateHeight(7, time.Millisecond)
	m.MessageApplied("vote")
	m.MessageFailed("vote", ErrNodeStopped())
	m.MessageFailed("vote", nil)
	ts := httptest.NewServer(m.Handler())
	defer ts.Close()
	resp, err := ts.Client().Get(ts.URL + metricsPattern)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	tests := []struct {
		name     string
		detail   string
		expected string
	}{
		{name: "height", detail: "the gauge holds the latest height", expected: "fundpolls_height 7"},
		{name: "status", detail: "the node reports as alive", expected: "fundpolls_node_status 1"},
		{name: "applied", detail: "applied messages are counted by type", expected: `fundpolls_messages_applied{type="vote"} 1`},
		{name: "failed", detail: "rejected messages are counted by error", expected: `fundpolls_messages_failed{code="6",module="rpc",type="vote"} 1`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Contains(t, string(body), test.expected)
		})
	}
}
