package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 座席操作の総数（operation: take/release, status: success/conflict/error）
	SeatOperationsTotal *prometheus.CounterVec

	// 購入の総数（status: success, no_seat, no_card, expired_card, declined, coupon_used, error）
	PurchasesTotal *prometheus.CounterVec

	// クーポン消費の総数（status: success, already_used）
	CouponRedemptionsTotal *prometheus.CounterVec

	// 仮押さえ中の座席数
	HeldSeats prometheus.Gauge
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		SeatOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_operations_total",
				Help: "Total number of seat hold/release attempts",
			},
			[]string{"operation", "status"},
		),
		PurchasesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchases_total",
				Help: "Total number of purchase attempts",
			},
			[]string{"status"},
		),
		CouponRedemptionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_redemptions_total",
				Help: "Total number of coupon spend attempts",
			},
			[]string{"status"},
		),
		HeldSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "held_seats",
				Help: "Current number of provisionally held seats",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SeatOperationsTotal,
		m.PurchasesTotal,
		m.CouponRedemptionsTotal,
		m.HeldSeats,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
