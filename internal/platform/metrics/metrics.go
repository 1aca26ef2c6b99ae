package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the authorization flow.
type Metrics struct {
	TransactionsStarted prometheus.Counter
	ChallengesSent      prometheus.Counter
	AuthSuccess         prometheus.Counter
	AuthFailure         prometheus.Counter
	CodesIssued         prometheus.Counter
	GatewayLatency      prometheus.Histogram
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idp_gateway_transactions_started_total",
			Help: "Total number of authorization transactions created",
		}),
		ChallengesSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idp_gateway_challenges_sent_total",
			Help: "Total number of authentication challenges dispatched",
		}),
		AuthSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idp_gateway_authentications_success_total",
			Help: "Total number of successful credential verifications",
		}),
		AuthFailure: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idp_gateway_authentications_failure_total",
			Help: "Total number of failed credential verifications",
		}),
		CodesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "idp_gateway_auth_codes_issued_total",
			Help: "Total number of authorization codes issued",
		}),
		GatewayLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "idp_gateway_authn_gateway_duration_seconds",
			Help:    "Latency of authentication gateway verification calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// ObserveGatewayLatency records one gateway round trip.
func (m *Metrics) ObserveGatewayLatency(d time.Duration) {
	m.GatewayLatency.Observe(d.Seconds())
}
