// Package metrics holds the Prometheus collectors for the support API.
package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quote_desk"

var (
	ChatTurns = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_turns_total",
		Help:      "Chat requests answered.",
	})

	Diagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "diagnostics_total",
		Help:      "Diagnostic blocks seen in model replies, by outcome.",
	}, []string{"outcome"})

	QuotesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_created_total",
		Help:      "Quotes stored.",
	})

	EmailFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_failures_total",
		Help:      "Notification emails that could not be sent, by recipient.",
	}, []string{"recipient"})

	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Failed calls to external services.",
	}, []string{"service"})

	LLMLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_seconds",
		Help:      "Latency of chat completion requests.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 30, 60},
	})
)

const (
	OutcomeParsed = "parsed"
	OutcomeFailed = "failed"

	RecipientCompany    = "company"
	RecipientCustomer   = "customer"
	RecipientSuperAdmin = "super_admin"
)

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
