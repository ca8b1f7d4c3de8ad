package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spicehaven/storefront/internal/models"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	// GetAll returns every product ordered by creation time, newest first.
	GetAll(ctx context.Context) ([]models.Product, error)
	// Insert stores a new product and returns it with its assigned
	// id and creation timestamp.
	Insert(ctx context.Context, in models.NewProduct) (*models.Product, error)
	// Delete removes the product matching id. The delete is match-based
	// and idempotent: an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}

// InMemoryProductRepository implements ProductRepository with in-memory
// storage. It backs the dev backend and tests; production uses the gateway.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
	seq      map[string]int64 // insertion order, breaks created_at ties
	next     int64
}

// NewInMemoryProductRepository creates an empty in-memory product repository
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: make(map[string]models.Product),
		seq:      make(map[string]int64),
	}
}

// GetAll returns all products, newest first
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]models.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return r.seq[a.ID] > r.seq[b.ID]
	})

	return products, nil
}

// Insert stores a new product with a generated id and current timestamp
func (r *InMemoryProductRepository) Insert(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product := models.Product{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}

	r.next++
	r.products[product.ID] = product
	r.seq[product.ID] = r.next

	return &product, nil
}

// Delete removes the product matching id, if any
func (r *InMemoryProductRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	delete(r.seq, id)
	return nil
}
