package lib

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/* This file implements dev-ops telemetry for the node in the form of prometheus metrics */

const metricsPattern = "/metrics"

// Metrics represents a server that exposes Prometheus metrics
// a nil *Metrics is valid and records nothing
type Metrics struct {
	server   *http.Server         // the http prometheus server
	registry *prometheus.Registry // the collectors of this node only
	config   MetricsConfig        // the configuration
	log      LoggerI              // the logger

	NodeMetrics  // general telemetry about the node
	PollsMetrics // polls module telemetry
}

// NodeMetrics represents general telemetry for the node's health
type NodeMetrics struct {
	NodeStatus           prometheus.Gauge     // is the node alive?
	Height               prometheus.Gauge     // what's the height being built?
	HeightProcessingTime prometheus.Histogram // how long does it take to commit a height and run its scheduled work?
}

// PollsMetrics represents the telemetry of the polls module
type PollsMetrics struct {
	MessagesApplied *prometheus.CounterVec // how many messages were applied, per type?
	MessagesFailed  *prometheus.CounterVec // how many messages were rejected, per type and error code?
}

// NewMetricsServer() creates a new telemetry server with its own registry
func NewMetricsServer(config MetricsConfig, log LoggerI) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	mux := http.NewServeMux()
	mux.Handle(metricsPattern, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &Metrics{
		server:   &http.Server{Addr: config.PrometheusAddress, Handler: mux},
		registry: registry,
		config:   config,
		log:      log,
		NodeMetrics: NodeMetrics{
			NodeStatus: factory.NewGauge(prometheus.GaugeOpts{
				Name: "fundpolls_node_status",
				Help: "The node is alive and producing heights",
			}),
			Height: factory.NewGauge(prometheus.GaugeOpts{
				Name: "fundpolls_height",
				Help: "Height currently being built",
			}),
			HeightProcessingTime: factory.NewHistogram(prometheus.HistogramOpts{
				Name: "fundpolls_height_processing_time",
				Help: "Time to commit a height and run its scheduled work in seconds",
			}),
		},
		PollsMetrics: PollsMetrics{
			MessagesApplied: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "fundpolls_messages_applied",
				Help: "Number of applied messages",
			}, []string{"type"}),
			MessagesFailed: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "fundpolls_messages_failed",
				Help: "Number of rejected messages",
			}, []string{"type", "module", "code"}),
		},
	}
}

// Start() serves the telemetry until the context is cancelled
func (m *Metrics) Start(ctx context.Context) ErrorI {
	// exit if empty or disabled
	if m == nil || !m.config.Enabled {
		return nil
	}
	errCh := make(chan error, 1)
	go func() {
		m.log.Infof("Starting metrics server on %s", m.config.PrometheusAddress)
		errCh <- m.server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		m.log.Errorf("Metrics server failed with err: %s", err.Error())
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.server.Shutdown(shutdownCtx); err != nil {
			m.log.Error(err.Error())
		}
		return nil
	}
}

// Handler() exposes the metrics of this node over http
func (m *Metrics) Handler() http.Handler { return m.server.Handler }

// UpdateHeight() records a produced height and how long it took
func (m *Metrics) UpdateHeight(height uint64, took time.Duration) {
	// exit if empty
	if m == nil {
		return
	}
	// set node is active
	m.NodeStatus.Set(1)
	m.Height.Set(float64(height))
	m.HeightProcessingTime.Observe(took.Seconds())
}

// MessageApplied() counts an applied message
func (m *Metrics) MessageApplied(messageType string) {
	// exit if empty
	if m == nil {
		return
	}
	m.MessagesApplied.WithLabelValues(messageType).Inc()
}

// MessageFailed() counts a rejected message by the error it was rejected with
func (m *Metrics) MessageFailed(messageType string, err ErrorI) {
	// exit if empty
	if m == nil || err == nil {
		return
	}
	m.MessagesFailed.WithLabelValues(messageType, string(err.Module()), strconv.FormatUint(uint64(err.Code()), 10)).Inc()
}
