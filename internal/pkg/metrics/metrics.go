package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts ledger movements and request transitions.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	StockUnits         *prometheus.CounterVec
	StockRejected      *prometheus.CounterVec
	RequestTransitions *prometheus.CounterVec
	OffersCreated      prometheus.Counter
	ApproveDuration    prometheus.Histogram
}

// New registers the collectors on reg. With a nil reg the collectors are
// created but not registered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		StockUnits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodbank_stock_units_total",
			Help: "Units moved through the inventory ledger",
		}, []string{"action", "blood_group"}),
		StockRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodbank_stock_rejected_total",
			Help: "Ledger operations refused because of validation or insufficient stock",
		}, []string{"action"}),
		RequestTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bloodbank_request_transitions_total",
			Help: "Donation requests entering a status",
		}, []string{"status"}),
		OffersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "bloodbank_offers_created_total",
			Help: "Donation offers made by donors",
		}),
		ApproveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bloodbank_approve_duration_seconds",
			Help:    "Duration of request approvals including the stock allocation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) ObserveStock(action, group string, units int) {
	if m == nil {
		return
	}
	m.StockUnits.WithLabelValues(action, group).Add(float64(units))
}

func (m *Metrics) IncStockRejected(action string) {
	if m == nil {
		return
	}
	m.StockRejected.WithLabelValues(action).Inc()
}

func (m *Metrics) IncRequestTransition(status string) {
	if m == nil {
		return
	}
	m.RequestTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncOffersCreated() {
	if m == nil {
		return
	}
	m.OffersCreated.Inc()
}

// ObserveApprove records the duration since start.
func (m *Metrics) ObserveApprove(start time.Time) {
	if m == nil {
		return
	}
	m.ApproveDuration.Observe(time.Since(start).Seconds())
}
