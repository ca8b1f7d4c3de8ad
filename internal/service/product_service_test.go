package service

import (
	"context"
	"testing"

	"github.com/spicehaven/storefront/internal/models"
	"github.com/spicehaven/storefront/internal/repository"
)

func TestCreateProduct_RequiresName(t *testing.T) {
	svc := NewProductService(repository.NewInMemoryProductRepository())
	ctx := context.Background()

	tests := []struct {
		name  string
		input models.NewProduct
	}{
		{name: "empty name", input: models.NewProduct{Name: ""}},
		{name: "whitespace name", input: models.NewProduct{Name: "   "}},
		{name: "only optional fields", input: models.NewProduct{Description: "fragrant", ImageURL: "x.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateProduct(ctx, tt.input); err != ErrNameRequired {
				t.Errorf("err = %v, want ErrNameRequired", err)
			}
		})
	}

	// Rejected creates must leave the store untouched
	products, err := svc.ListProducts(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("len = %d after rejected creates, want 0", len(products))
	}
}

func TestCreateProduct_Success(t *testing.T) {
	svc := NewProductService(repository.NewInMemoryProductRepository())
	ctx := context.Background()

	product, err := svc.CreateProduct(ctx, models.NewProduct{
		Name:        "Saffron",
		Description: "hand-picked threads",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if product.Name != "Saffron" {
		t.Errorf("name = %q, want Saffron", product.Name)
	}
	if product.ID == "" {
		t.Error("expected assigned id")
	}
}

func TestDeleteProduct_RequiresID(t *testing.T) {
	svc := NewProductService(repository.NewInMemoryProductRepository())
	ctx := context.Background()

	if err := svc.DeleteProduct(ctx, ""); err != ErrProductIDRequired {
		t.Errorf("err = %v, want ErrProductIDRequired", err)
	}
	if err := svc.DeleteProduct(ctx, "  "); err != ErrProductIDRequired {
		t.Errorf("err = %v, want ErrProductIDRequired", err)
	}
}

func TestDeleteProduct_UnknownIDSucceeds(t *testing.T) {
	svc := NewProductService(repository.NewInMemoryProductRepository())

	if err := svc.DeleteProduct(context.Background(), "no-such-id"); err != nil {
		t.Errorf("unknown-id delete returned error: %v", err)
	}
}
