package relay

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts relay protocol outcomes. All methods are nil-safe so tests
// can run a Relay without registering collectors.
type Metrics struct {
	Dispatched      prometheus.Counter
	Delivered       prometheus.Counter
	ReplaysRejected prometheus.Counter
	SendFailures    *prometheus.CounterVec
	AdminMutations  prometheus.Counter
}

// NewMetrics registers the relay collectors on the default registry. Call
// once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		Dispatched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_dispatched_total",
			Help: "Total messages handed to the transport for cross-network delivery",
		}),
		Delivered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_delivered_total",
			Help: "Total inbound messages applied to custody",
		}),
		ReplaysRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_replays_rejected_total",
			Help: "Total inbound messages rejected because their id was already processed",
		}),
		SendFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_send_failures_total",
			Help: "Total failed send operations by error kind",
		}, []string{"kind"}),
		AdminMutations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "relay_admin_mutations_total",
			Help: "Total administrative allowlist and configuration mutations",
		}),
	}
}

func (m *Metrics) incDispatched() {
	if m != nil {
		m.Dispatched.Inc()
	}
}

func (m *Metrics) incDelivered() {
	if m != nil {
		m.Delivered.Inc()
	}
}

func (m *Metrics) incReplayRejected() {
	if m != nil {
		m.ReplaysRejected.Inc()
	}
}

func (m *Metrics) incSendFailure(kind string) {
	if m != nil {
		m.SendFailures.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) incAdminMutation() {
	if m != nil {
		m.AdminMutations.Inc()
	}
}
