package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skillswap",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "skillswap",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	swapTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "swap_transitions_total",
		Help:      "Swap lifecycle operations by action and outcome",
	}, []string{"action", "outcome"})

	broadcastDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skillswap",
		Name:      "broadcast_deliveries_total",
		Help:      "Broadcast deliveries by outcome",
	}, []string{"outcome"})
)

// ObserveSwap records one swap engine operation (create, accept, feedback, ...).
func ObserveSwap(action, outcome string) {
	swapTransitions.WithLabelValues(action, outcome).Inc()
}

// ObserveBroadcast records the fan-out result of one broadcast.
func ObserveBroadcast(delivered, failed int) {
	broadcastDeliveries.WithLabelValues("delivered").Add(float64(delivered))
	broadcastDeliveries.WithLabelValues("failed").Add(float64(failed))
}

// Middleware instruments request counts and latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequests.WithLabelValues(c.Request.Method, route, status).Inc()
		httpLatency.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default Prometheus registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
