package middleware

import (
	"time"

	"storefront/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics is a Fiber middleware that records request counts and latencies
// labelled with the matched route pattern.
func Metrics(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		m.ObserveRequest(c.Method(), c.Route().Path, responseStatus(c, err), time.Since(start))
		return err
	}
}
