package service

import (
	"context"
	"errors"
	"strings"

	"github.com/spicehaven/storefront/internal/models"
	"github.com/spicehaven/storefront/internal/repository"
)

var (
	ErrNameRequired      = errors.New("product name is required")
	ErrProductIDRequired = errors.New("product id is required")
)

// ProductService handles business logic for products
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns all products, newest first
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// CreateProduct validates the payload and stores a new product.
// Description and image URL are optional; only the name is checked.
func (s *ProductService) CreateProduct(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, ErrNameRequired
	}
	return s.repo.Insert(ctx, in)
}

// DeleteProduct removes the product matching id. Deleting an id that
// matches nothing succeeds, mirroring the store's match-based delete.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrProductIDRequired
	}
	return s.repo.Delete(ctx, id)
}
