package handlers

import (
	"bufio"
	"context"

	"storefront/internal/metrics"
	"storefront/internal/timefeed"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// TimeHandler streams the current time as server-sent events.
type TimeHandler struct {
	ctx     context.Context
	feed    timefeed.Feed
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// NewTimeHandler creates a TimeHandler. Every open stream ends when ctx is
// cancelled, which main does before shutting the server down.
func NewTimeHandler(ctx context.Context, feed timefeed.Feed, m *metrics.Metrics, log logrus.FieldLogger) *TimeHandler {
	return &TimeHandler{
		ctx:     ctx,
		feed:    feed,
		metrics: m,
		log:     log,
	}
}

// RegisterRoutes registers the streaming route with the Fiber app.
func (h *TimeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/currentTime", h.HandleCurrentTime)
}

// HandleCurrentTime holds the connection open and pushes one event per tick.
func (h *TimeHandler) HandleCurrentTime(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	// c is recycled once the handler returns; copy what the writer needs.
	log := h.log.WithField("remote_ip", c.IP())

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		h.metrics.StreamOpened()
		defer h.metrics.StreamClosed()

		log.Debug("time stream opened")
		if err := h.feed.Stream(h.ctx, w); err != nil {
			log.WithError(err).Debug("time stream closed by client")
			return
		}
		log.Debug("time stream closed")
	}))
	return nil
}
