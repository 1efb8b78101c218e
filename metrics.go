package adsmux

import "github.com/prometheus/client_golang/prometheus"

// clientMetrics holds the optional Prometheus instrumentation for a Client.
// Every field is created against a prometheus.Registerer passed in Config;
// when the caller doesn't supply one, newClientMetrics falls back to an
// unregistered NewPedanticRegistry-free set of collectors so every method on
// Client can call through unconditionally instead of nil-checking metrics at
// every call site.
type clientMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	notifications   prometheus.Counter
	reaped          prometheus.Counter
	pendingGauge    prometheus.GaugeFunc
}

func newClientMetrics(reg prometheus.Registerer, pendingLen func() int) *clientMetrics {
	m := &clientMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adsmux",
			Name:      "requests_total",
			Help:      "ADS requests sent, by command and outcome.",
		}, []string{"command", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "adsmux",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of ADS requests, by command.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		notifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adsmux",
			Name:      "notifications_total",
			Help:      "Device notification samples dispatched to callbacks.",
		}),
		reaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adsmux",
			Name:      "reaped_requests_total",
			Help:      "Pending requests evicted by the stale-handle reaper.",
		}),
	}
	m.pendingGauge = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "adsmux",
		Name:      "pending_requests",
		Help:      "Requests currently awaiting a response.",
	}, func() float64 { return float64(pendingLen()) })

	if reg != nil {
		reg.MustRegister(m.requestsTotal, m.requestDuration, m.notifications, m.reaped, m.pendingGauge)
	}
	return m
}

func (m *clientMetrics) observeRequest(command string, d float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.requestsTotal.WithLabelValues(command, outcome).Inc()
	m.requestDuration.WithLabelValues(command).Observe(d)
}
