package api

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var meter = otel.Meter("storefront.api")

// checkoutPlans counts checkout hand-offs by outcome so degradations are
// visible without log scraping.
var checkoutPlans, _ = meter.Int64Counter("checkout_plans_total",
	metric.WithDescription("Checkout hand-offs by outcome (direct or degraded)."),
)

func checkoutOutcome(direct bool) attribute.KeyValue {
	if direct {
		return attribute.String("outcome", "direct")
	}
	return attribute.String("outcome", "degraded")
}
