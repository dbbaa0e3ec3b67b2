package handlers

import (
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const orderStatusRule = "oneof=pending processing shipped delivered cancelled"

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service      *services.OrderService
	validate     *validator.Validate
	log          logrus.FieldLogger
	legacyPaging bool
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, log logrus.FieldLogger, legacyPaging bool) *OrderHandler {
	return &OrderHandler{
		service:      service,
		validate:     newValidator(),
		log:          log,
		legacyPaging: legacyPaging,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Put("/:id", h.HandleUpdateOrder)
	orderRoutes.Patch("/:id", h.HandleUpdateOrder)
	orderRoutes.Delete("/:id", h.HandleDeleteOrder)
}

// HandleGetOrders lists orders ordered by id with a pagination block.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	page := pagination.Parse(c.Query("page"), c.Query("limit"), h.legacyPaging)

	orders, total, err := h.service.ListOrders(c.UserContext(), page)
	if err != nil {
		h.log.WithError(err).Error("Error getting all orders")
		return fail(c, fiber.StatusInternalServerError, "Error when retrieving all orders", err)
	}

	meta := pagination.NewMeta(page, total)
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success:    true,
		Data:       orders,
		Pagination: &meta,
	})
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid order id", nil)
	}

	order, err := h.service.GetOrderByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Order not found", nil)
		}
		h.log.WithError(err).Errorf("Error getting order by ID %d", id)
		return fail(c, fiber.StatusInternalServerError, "Error when retrieving the order", err)
	}
	return respond(c, fiber.StatusOK, "", order)
}

// HandleCreateOrder creates a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var input models.OrderInput
	if err := parseBody(c, &input); err != nil {
		h.log.WithError(err).Warn("Error parsing order request body")
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.validate.Struct(input); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Error when adding a new order", validationError(err))
	}

	order, err := h.service.CreateOrder(c.UserContext(), input)
	if err != nil {
		h.log.WithError(err).Error("Error creating order")
		return fail(c, fiber.StatusInternalServerError, "Error when adding a new order", err)
	}

	h.log.WithField("order_id", order.ID).Info("order created")
	return respond(c, fiber.StatusCreated, "Order created successfully", order)
}

// HandleUpdateOrder applies the fields present in the body to an order.
// Only the status whitelist is checked; required fields are not re-checked.
func (h *OrderHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid order id", nil)
	}

	var input models.OrderInput
	if err := parseBody(c, &input); err != nil {
		h.log.WithError(err).Warnf("Error parsing update body for order %d", id)
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if input.Status != nil {
		if err := h.validate.Var(*input.Status, orderStatusRule); err != nil {
			return fail(c, fiber.StatusInternalServerError, "Error when updating the order",
				fmt.Errorf("invalid order status %q", *input.Status))
		}
	}

	order, err := h.service.UpdateOrder(c.UserContext(), id, input)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Order not found", nil)
		}
		h.log.WithError(err).Errorf("Error updating order %d", id)
		return fail(c, fiber.StatusInternalServerError, "Error when updating the order", err)
	}

	return respond(c, fiber.StatusOK, "Order updated successfully", order)
}

// HandleDeleteOrder deletes an order and echoes its id.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid order id", nil)
	}

	if err := h.service.DeleteOrder(c.UserContext(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Order not found", nil)
		}
		h.log.WithError(err).Errorf("Error deleting order %d", id)
		return fail(c, fiber.StatusInternalServerError, "Error when deleting the order", err)
	}

	return respond(c, fiber.StatusOK, "Order deleted successfully", fiber.Map{"id": id})
}
