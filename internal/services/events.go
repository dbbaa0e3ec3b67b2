package services

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Routing keys of the events emitted after successful mutations.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventOrderCreated   = "order.created"
	EventOrderUpdated   = "order.updated"
	EventOrderDeleted   = "order.deleted"
)

// EventPublisher delivers domain events to a message broker.
type EventPublisher interface {
	PublishEvent(ctx context.Context, routingKey string, payload any) error
}

// publish sends an event when a publisher is configured. Failures are logged
// and never returned: the database write has already succeeded.
func publish(ctx context.Context, pub EventPublisher, log logrus.FieldLogger, routingKey string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(ctx, routingKey, payload); err != nil {
		log.WithError(err).WithField("event", routingKey).Warn("failed to publish event")
	}
}
