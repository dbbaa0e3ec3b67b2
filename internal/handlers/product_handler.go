package handlers

import (
	"errors"

	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service      *services.ProductService
	validate     *validator.Validate
	log          logrus.FieldLogger
	legacyPaging bool
}

// NewProductHandler creates a new ProductHandler. legacyPaging selects the
// page-scaled limit with zero offset (see package pagination).
func NewProductHandler(service *services.ProductService, log logrus.FieldLogger, legacyPaging bool) *ProductHandler {
	return &ProductHandler{
		service:      service,
		validate:     newValidator(),
		log:          log,
		legacyPaging: legacyPaging,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Patch("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts lists products ordered by id with a pagination block.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page := pagination.Parse(c.Query("page"), c.Query("limit"), h.legacyPaging)

	products, total, err := h.service.ListProducts(c.UserContext(), page)
	if err != nil {
		h.log.WithError(err).Error("Error getting all products")
		return fail(c, fiber.StatusInternalServerError, "Error when retrieving all products", err)
	}

	meta := pagination.NewMeta(page, total)
	return c.Status(fiber.StatusOK).JSON(Envelope{
		Success:    true,
		Data:       products,
		Pagination: &meta,
	})
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid product id", nil)
	}

	product, err := h.service.GetProductByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found", nil)
		}
		h.log.WithError(err).Errorf("Error getting product by ID %d", id)
		return fail(c, fiber.StatusInternalServerError, "Error when retrieving the product", err)
	}
	return respond(c, fiber.StatusOK, "", product)
}

// HandleCreateProduct creates a product from the whitelisted body fields.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductInput
	if err := parseBody(c, &input); err != nil {
		h.log.WithError(err).Warn("Error parsing product request body")
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.validate.Struct(input); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Error when adding a new product", validationError(err))
	}

	product, err := h.service.CreateProduct(c.UserContext(), input)
	if err != nil {
		h.log.WithError(err).Error("Error creating product")
		return fail(c, fiber.StatusInternalServerError, "Error when adding a new product", err)
	}

	h.log.WithField("product_id", product.ID).Info("product created")
	return respond(c, fiber.StatusCreated, "Product created successfully", product)
}

// HandleUpdateProduct applies the fields present in the body to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid product id", nil)
	}

	var input models.ProductInput
	if err := parseBody(c, &input); err != nil {
		h.log.WithError(err).Warnf("Error parsing update body for product %d", id)
		return fail(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	product, err := h.service.UpdateProduct(c.UserContext(), id, input)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found", nil)
		}
		h.log.WithError(err).Errorf("Error updating product %d", id)
		return fail(c, fiber.StatusInternalServerError, "Error when updating the product", err)
	}

	return respond(c, fiber.StatusOK, "Product updated successfully", product)
}

// HandleDeleteProduct deletes a product and echoes its id.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return fail(c, fiber.StatusBadRequest, "Invalid product id", nil)
	}

	if err := h.service.DeleteProduct(c.UserContext(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fail(c, fiber.StatusNotFound, "Product not found", nil)
		}
		h.log.WithError(err).Errorf("Error deleting product %d", id)
		return fail(c, fiber.StatusInternalServerError, "Error when deleting the product", err)
	}

	h.log.WithField("product_id", id).Info("product deleted")
	return respond(c, fiber.StatusOK, "Product deleted successfully", fiber.Map{"id": id})
}
