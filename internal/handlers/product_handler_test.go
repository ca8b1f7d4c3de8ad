package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spicehaven/storefront/internal/gateway"
	"github.com/spicehaven/storefront/internal/middleware"
	"github.com/spicehaven/storefront/internal/models"
	"github.com/spicehaven/storefront/internal/repository"
	"github.com/spicehaven/storefront/internal/service"
	"github.com/spicehaven/storefront/pkg/logger"
)

const testToken = "testtoken"

// newTestRouter wires the product routes the way cmd/server does, backed by
// an empty in-memory store and a static verifier accepting testToken.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	repo := repository.NewInMemoryProductRepository()
	svc := service.NewProductService(repo)
	log := logger.New("error")
	handler := NewProductHandler(svc, log)
	verifier := gateway.NewStaticVerifier([]string{testToken})

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", handler.ListProducts)
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier, log))
			r.Post("/products", handler.CreateProduct)
			r.Post("/products/delete", handler.DeleteProduct)
		})
	})
	return r
}

func createProduct(t *testing.T, r *chi.Mux, in models.NewProduct) models.Product {
	t.Helper()

	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode created product: %v", err)
	}
	return product
}

func listProducts(t *testing.T, r *chi.Mux) []models.Product {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d, body = %s", w.Code, w.Body.String())
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode product list: %v", err)
	}
	return products
}

func TestListProducts_EmptyCatalog(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}

	// Must be an empty JSON array, not null
	if got := w.Body.String(); got != "[]\n" {
		t.Errorf("body = %q, want empty array", got)
	}
}

func TestCreateProduct_AppearsInList(t *testing.T) {
	r := newTestRouter(t)

	created := createProduct(t, r, models.NewProduct{
		Name:        "Saffron",
		Description: "",
		ImageURL:    "",
	})

	if created.Name != "Saffron" {
		t.Errorf("name = %q, want Saffron", created.Name)
	}
	if created.ID == "" {
		t.Error("expected assigned product id")
	}
	if created.CreatedAt.IsZero() {
		t.Error("expected assigned creation timestamp")
	}

	products := listProducts(t, r)
	if len(products) != 1 {
		t.Fatalf("list length = %d, want 1", len(products))
	}
	if products[0].Name != "Saffron" {
		t.Errorf("listed name = %q, want Saffron", products[0].Name)
	}
}

func TestListProducts_NewestFirst(t *testing.T) {
	r := newTestRouter(t)

	createProduct(t, r, models.NewProduct{Name: "Cardamom"})
	createProduct(t, r, models.NewProduct{Name: "Turmeric"})
	createProduct(t, r, models.NewProduct{Name: "Saffron"})

	products := listProducts(t, r)
	want := []string{"Saffron", "Turmeric", "Cardamom"}
	if len(products) != len(want) {
		t.Fatalf("list length = %d, want %d", len(products), len(want))
	}
	for i, name := range want {
		if products[i].Name != name {
			t.Errorf("products[%d].Name = %q, want %q", i, products[i].Name, name)
		}
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{
			name:          "missing name",
			body:          `{"description":"fragrant"}`,
			expectedError: "Product name is required",
		},
		{
			name:          "empty name",
			body:          `{"name":""}`,
			expectedError: "Product name is required",
		},
		{
			name:          "whitespace name",
			body:          `{"name":"   "}`,
			expectedError: "Product name is required",
		},
		{
			name:          "malformed json",
			body:          `{"name":`,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)

			req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Authorization", "Bearer "+testToken)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}

			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body["error"] != tt.expectedError {
				t.Errorf("error = %q, want %q", body["error"], tt.expectedError)
			}

			// Validation failures must leave no record behind
			if products := listProducts(t, r); len(products) != 0 {
				t.Errorf("list length = %d after rejected create, want 0", len(products))
			}
		})
	}
}

func TestMutations_RequireToken(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		body   string
		header string
	}{
		{name: "create without token", path: "/api/products", body: `{"name":"Saffron"}`},
		{name: "create with invalid token", path: "/api/products", body: `{"name":"Saffron"}`, header: "Bearer wrong"},
		{name: "delete without token", path: "/api/products/delete", body: `{"product_id":"abc"}`},
		{name: "delete with invalid token", path: "/api/products/delete", body: `{"product_id":"abc"}`, header: "Bearer wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)

			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewReader([]byte(tt.body)))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", w.Code)
			}

			// Rejected calls must have no side effect
			if products := listProducts(t, r); len(products) != 0 {
				t.Errorf("list length = %d after rejected call, want 0", len(products))
			}
		})
	}
}

func TestDeleteProduct_RemovesRecord(t *testing.T) {
	r := newTestRouter(t)

	keep := createProduct(t, r, models.NewProduct{Name: "Cardamom"})
	target := createProduct(t, r, models.NewProduct{Name: "Saffron"})

	body, _ := json.Marshal(DeleteRequest{ProductID: target.ID})
	req := httptest.NewRequest(http.MethodPost, "/api/products/delete", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := "Product " + target.ID + " deleted successfully"
	if resp["message"] != want {
		t.Errorf("message = %q, want %q", resp["message"], want)
	}

	products := listProducts(t, r)
	if len(products) != 1 {
		t.Fatalf("list length = %d, want 1", len(products))
	}
	if products[0].ID != keep.ID {
		t.Errorf("remaining product id = %s, want %s", products[0].ID, keep.ID)
	}
}

func TestDeleteProduct_UnknownIDIsIdempotent(t *testing.T) {
	r := newTestRouter(t)

	createProduct(t, r, models.NewProduct{Name: "Cardamom"})

	body, _ := json.Marshal(DeleteRequest{ProductID: "no-such-id"})
	req := httptest.NewRequest(http.MethodPost, "/api/products/delete", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for unknown id", w.Code)
	}

	if products := listProducts(t, r); len(products) != 1 {
		t.Errorf("list length = %d, want existing record untouched", len(products))
	}
}

func TestDeleteProduct_MissingID(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products/delete", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body["error"] != "Product ID is required" {
		t.Errorf("error = %q, want %q", body["error"], "Product ID is required")
	}
}

func TestCreateProduct_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/api/products", bytes.NewReader([]byte(`{"name":"Saffron"}`)))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}
