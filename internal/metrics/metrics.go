package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foundation_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "foundation_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	donationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "foundation_donations_created_total",
		Help: "Count of pending donations created at checkout",
	})

	donationOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foundation_donation_outcomes_total",
		Help: "Count of donation status transitions applied by reconciliation",
	}, []string{"status"})

	webhookEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "foundation_webhook_events_total",
		Help: "Count of gateway webhook deliveries by type and result",
	}, []string{"type", "result"})
)

// ObserveDonationCreated increments the checkout counter.
func ObserveDonationCreated() {
	donationsCreated.Inc()
}

// ObserveDonationOutcome records an applied pending-to-terminal transition.
// Reconciliation calls this at most once per donation, which keeps the
// counter consistent with the ledger under webhook redelivery.
func ObserveDonationOutcome(status string) {
	donationOutcomes.WithLabelValues(status).Inc()
}

// ObserveWebhookEvent records a webhook delivery. result is one of
// applied, duplicate, unknown_intent, ignored, rejected.
func ObserveWebhookEvent(eventType, result string) {
	webhookEvents.WithLabelValues(eventType, result).Inc()
}

// Middleware instruments every request with count and duration metrics.
// The route pattern is used as the path label to bound cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
		}

		path := c.Route().Path
		code := strconv.Itoa(status)
		httpRequestsTotal.WithLabelValues(c.Method(), path, code).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the Prometheus scrape endpoint through Fiber.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
