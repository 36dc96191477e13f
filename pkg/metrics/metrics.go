package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds metrics configuration
type Config struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Subsystem string `json:"subsystem" yaml:"subsystem"`
}

// DefaultConfig returns default metrics configuration
func DefaultConfig() *Config {
	return &Config{
		Namespace: "flowpro",
		Subsystem: "",
	}
}

// Metrics holds all application metrics
type Metrics struct {
	config *Config

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Workflow metrics
	WorkflowExecutionsTotal   *prometheus.CounterVec
	WorkflowExecutionDuration *prometheus.HistogramVec
	ExecutionsActive          prometheus.Gauge
	ExecutionsRetained        prometheus.Gauge

	// Node metrics
	NodeExecutionsTotal   *prometheus.CounterVec
	NodeExecutionDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates a new metrics instance
func New(config *Config) *Metrics {
	if config == nil {
		config = DefaultConfig()
	}

	m := &Metrics{
		config:   config,
		registry: prometheus.NewRegistry(),
	}

	m.initHTTPMetrics()
	m.initWorkflowMetrics()
	m.initNodeMetrics()
	m.registerMetrics()

	return m
}

func (m *Metrics) initHTTPMetrics() {
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)
}

func (m *Metrics) initWorkflowMetrics() {
	m.WorkflowExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "workflow_executions_total",
			Help:      "Total number of workflow executions",
		},
		[]string{"workflow_id", "status"},
	)

	m.WorkflowExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "workflow_execution_duration_seconds",
			Help:      "Workflow execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 600},
		},
		[]string{"workflow_id", "status"},
	)

	m.ExecutionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "executions_active",
			Help:      "Number of workflow executions currently running",
		},
	)

	m.ExecutionsRetained = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "executions_retained",
			Help:      "Number of execution records held in the retention store",
		},
	)
}

func (m *Metrics) initNodeMetrics() {
	m.NodeExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "node_executions_total",
			Help:      "Total number of node executions",
		},
		[]string{"node_type", "status"},
	)

	m.NodeExecutionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.config.Namespace,
			Subsystem: m.config.Subsystem,
			Name:      "node_execution_duration_seconds",
			Help:      "Node execution duration in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"node_type", "status"},
	)
}

func (m *Metrics) registerMetrics() {
	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WorkflowExecutionsTotal,
		m.WorkflowExecutionDuration,
		m.ExecutionsActive,
		m.ExecutionsRetained,
		m.NodeExecutionsTotal,
		m.NodeExecutionDuration,
	)
}

// RecordHTTPRequest records HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordWorkflowExecution records workflow execution metrics
func (m *Metrics) RecordWorkflowExecution(workflowID, status string, duration time.Duration) {
	m.WorkflowExecutionsTotal.WithLabelValues(workflowID, status).Inc()
	m.WorkflowExecutionDuration.WithLabelValues(workflowID, status).Observe(duration.Seconds())
}

// RecordNodeExecution records node execution metrics
func (m *Metrics) RecordNodeExecution(nodeType, status string, duration time.Duration) {
	m.NodeExecutionsTotal.WithLabelValues(nodeType, status).Inc()
	m.NodeExecutionDuration.WithLabelValues(nodeType, status).Observe(duration.Seconds())
}

// SetExecutionsRetained updates the retention store gauge
func (m *Metrics) SetExecutionsRetained(count float64) {
	m.ExecutionsRetained.Set(count)
}

// Handler returns the HTTP handler for the metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
