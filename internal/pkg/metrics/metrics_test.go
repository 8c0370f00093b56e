package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveStock("add", "A+", 1)
		m.IncStockRejected("allocate")
		m.IncRequestTransition("Approved")
		m.IncOffersCreated()
		m.ObserveApprove(time.Now())
	})
}

func TestMetricsRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveStock("add", "A+", 3)
	m.ObserveStock("add", "A+", 2)
	m.IncRequestTransition("Pending")
	m.IncOffersCreated()

	assert.Equal(t, float64(5), testutil.ToFloat64(m.StockUnits.WithLabelValues("add", "A+")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.OffersCreated))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
