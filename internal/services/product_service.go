package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/pagination"
	"storefront/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
	log       logrus.FieldLogger
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher, log logrus.FieldLogger) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// ListProducts returns the products inside the requested window and the total count.
func (s *ProductService) ListProducts(ctx context.Context, p pagination.Params) ([]models.Product, int64, error) {
	return s.repo.List(ctx, p.Limit, p.Offset)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct stores a product built from the fields present in the input.
func (s *ProductService) CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error) {
	product := in.NewProduct()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.log, EventProductCreated, product)
	return product, nil
}

// UpdateProduct applies the fields present in the input to an existing product.
// An input with no fields saves the product unchanged.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, in models.ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.ApplyTo(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product %d: %w", id, err)
	}
	publish(ctx, s.publisher, s.log, EventProductUpdated, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.log, EventProductDeleted, map[string]uint{"id": id})
	return nil
}
