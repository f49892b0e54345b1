package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Gateway Metrics
var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGatewayRequestsTotal,
			Help: HelpTextGatewayRequestsTotal,
		},
		[]string{LabelOperation, LabelStatus},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameGatewayRequestDuration,
			Help:    HelpTextGatewayRequestDuration,
			Buckets: GatewayLatencyBuckets,
		},
		[]string{LabelOperation},
	)

	CapacityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCapacityCacheHits,
			Help: HelpTextCapacityCacheHits,
		},
	)

	CapacityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCapacityCacheMisses,
			Help: HelpTextCapacityCacheMisses,
		},
	)
)

// Business Metrics
var (
	TransfersCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTransfersCommitted,
			Help: HelpTextTransfersCommitted,
		},
	)

	TransfersRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransfersRejected,
			Help: HelpTextTransfersRejected,
		},
		[]string{LabelReason},
	)

	TransfersFailedRemote = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTransfersFailedRemote,
			Help: HelpTextTransfersFailedRemote,
		},
	)

	OptimisticRetained = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOptimisticRetained,
			Help: HelpTextOptimisticRetained,
		},
		[]string{LabelKind},
	)

	LocalOnlyRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLocalOnlyRecords,
			Help: HelpTextLocalOnlyRecords,
		},
		[]string{LabelKind},
	)
)
