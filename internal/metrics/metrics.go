// Package metrics exposes client-side counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hexdeck_client"

// Metrics 客户端指标。nil 的 *Metrics 可以安全调用所有方法
type Metrics struct {
	registry *prometheus.Registry

	received  *prometheus.CounterVec
	sent      *prometheus.CounterVec
	requests  *prometheus.CounterVec
	connected prometheus.Gauge
}

// New 创建指标并注册到独立的 registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_received_total",
			Help:      "Realtime events received from the server, by event name.",
		}, []string{"event"}),
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_sent_total",
			Help:      "Realtime events sent to the server, by event name and result.",
		}, []string{"event", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests to the room API, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected",
			Help:      "1 while the realtime connection is up.",
		}),
	}
	m.registry.MustRegister(m.received, m.sent, m.requests, m.connected)
	return m
}

// Registry returns the registry holding the client metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// EventReceived counts an inbound realtime event.
func (m *Metrics) EventReceived(event string) {
	if m == nil {
		return
	}
	m.received.WithLabelValues(event).Inc()
}

// EventSent counts an outbound realtime event.
func (m *Metrics) EventSent(event string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.sent.WithLabelValues(event, result).Inc()
}

// SetConnected tracks the connection state.
func (m *Metrics) SetConnected(connected bool) {
	if m == nil {
		return
	}
	if connected {
		m.connected.Set(1)
		return
	}
	m.connected.Set(0)
}

// ObserveRequest implements api.Observer.
func (m *Metrics) ObserveRequest(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, outcome).Inc()
}
