package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	// 各テストで新しいレジストリを使用
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.SeatOperationsTotal)
	assert.NotNil(t, m.PurchasesTotal)
	assert.NotNil(t, m.CouponRedemptionsTotal)
	assert.NotNil(t, m.HeldSeats)
}

func TestSeatOperationsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.SeatOperationsTotal.WithLabelValues("take", "success").Inc()
	m.SeatOperationsTotal.WithLabelValues("take", "conflict").Inc()
	m.SeatOperationsTotal.WithLabelValues("release", "success").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "seat_operations_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found, "seat_operations_total metric not found")
}

func TestPurchasesTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.PurchasesTotal.WithLabelValues("success").Inc()
	m.PurchasesTotal.WithLabelValues("declined").Inc()
	m.PurchasesTotal.WithLabelValues("coupon_used").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "purchases_total" {
			found = true
			assert.Equal(t, 3, len(f.GetMetric()))
		}
	}
	assert.True(t, found)
}

func TestHeldSeats(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HeldSeats.Add(4)
	m.HeldSeats.Add(-1)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() == "held_seats" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, 3.0, f.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found)
}

func TestInitAndGet(t *testing.T) {
	// Initはデフォルトレジストリに登録するため二重実行できない
	if defaultMetrics == nil {
		Init()
	}

	assert.NotNil(t, Get())
}
