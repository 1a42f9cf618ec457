package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "farmrent"

var (
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rental_transitions_total", Help: "Rental request status transitions"},
		[]string{"from", "to"},
	)
	BookingErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_errors_total", Help: "Failed booking operations by operation and error kind"},
		[]string{"operation", "kind"},
	)
	BookingLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_operation_duration_seconds",
			Help:      "Booking operation latency including lock wait",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
	TokensConsumedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "handover_tokens_consumed_total", Help: "Handover tokens redeemed"},
		[]string{"direction"},
	)
	OutboxDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "outbox_deliveries_total", Help: "Outbox event delivery attempts"},
		[]string{"kind", "result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	GRPCRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "grpc_requests_total", Help: "Total gRPC calls handled"},
		[]string{"method", "code"},
	)
)
