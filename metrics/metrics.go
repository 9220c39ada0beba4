package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var namespace = "tradier"

var (
	// APIRequests stores the number of REST calls partitioned by endpoint and
	// status code (or transport_error)
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Number of REST requests partitioned by endpoint and code",
	}, []string{"endpoint", "code"})

	// APIRequestDuration stores the round trip time of REST calls
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "REST request round trip time partitioned by endpoint",
	}, []string{"endpoint"})

	// StreamUpdates stores the number of events delivered, partitioned by kind
	StreamUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "update_total",
		Help:      "Total number of stream events, partitioned by kind.",
	}, []string{"kind"})

	// StreamErrors stores the number of in-loop stream errors, partitioned by error
	StreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "error_total",
		Help:      "Total number of stream errors, partitioned by error.",
	}, []string{"error"})

	// StreamState stores the current relay state as its ordinal
	StreamState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "state",
		Help:      "Relay state (0 disconnected, 1 connecting, 2 subscribed, 3 streaming), partitioned by stream.",
	}, []string{"stream"})

	// SinkPublished stores the number of events forwarded to a sink
	SinkPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sink",
		Name:      "published_total",
		Help:      "Number of events published, partitioned by sink and result.",
	}, []string{"sink", "result"})
)
