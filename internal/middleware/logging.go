package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one structured line per completed request. It expects the
// requestid middleware to run first. Server errors log at error level, client
// errors at warn.
func RequestLogger(log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := responseStatus(c, err)
		entry := log.WithFields(logrus.Fields{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetRespHeader(fiber.HeaderXRequestID),
			"ip":          c.IP(),
		})
		if err != nil {
			entry = entry.WithError(err)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			entry.Error("request.failed")
		case status >= fiber.StatusBadRequest:
			entry.Warn("request.rejected")
		default:
			entry.Info("request.complete")
		}
		return err
	}
}

// responseStatus is the status the error handler will send for err, or the
// status already written when the chain succeeded.
func responseStatus(c *fiber.Ctx, err error) int {
	if err == nil {
		return c.Response().StatusCode()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
