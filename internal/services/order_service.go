package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"

	"github.com/sirupsen/logrus"
)

// OrderService handles business logic related to orders.
type OrderService struct {
	repo      repositories.OrderRepository
	publisher EventPublisher
	log       logrus.FieldLogger
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(repo repositories.OrderRepository, publisher EventPublisher, log logrus.FieldLogger) *OrderService {
	return &OrderService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// ListOrders returns the orders inside the requested window and the total count.
func (s *OrderService) ListOrders(ctx context.Context, p pagination.Params) ([]models.Order, int64, error) {
	return s.repo.List(ctx, p.Limit, p.Offset)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id uint) (*models.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateOrder stores an order built from the fields present in the input.
func (s *OrderService) CreateOrder(ctx context.Context, in models.OrderInput) (*models.Order, error) {
	order := in.NewOrder()
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.log, EventOrderCreated, order)
	return order, nil
}

// UpdateOrder applies the fields present in the input to an existing order.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, in models.OrderInput) (*models.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.ApplyTo(order)
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order %d: %w", id, err)
	}
	publish(ctx, s.publisher, s.log, EventOrderUpdated, order)
	return order, nil
}

// DeleteOrder deletes an order by its ID.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.log, EventOrderDeleted, map[string]uint{"id": id})
	return nil
}
