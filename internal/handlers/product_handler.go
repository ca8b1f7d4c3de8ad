package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spicehaven/storefront/internal/middleware"
	"github.com/spicehaven/storefront/internal/models"
	"github.com/spicehaven/storefront/internal/service"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /api/products.
// The endpoint is intentionally public: it ignores request headers and
// returns the full catalog newest-first. No partial results on failure.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("failed to list products", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch products", h.logger)
		return
	}

	// An empty catalog is a JSON array, never null.
	if products == nil {
		products = []models.Product{}
	}

	WriteJSON(w, http.StatusOK, products, h.logger)
}

// CreateProduct handles POST /api/products. The route is wrapped by
// BearerAuth, so the request carries an authenticated user by the time it
// gets here; any signed-in user may create products.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in models.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("failed to decode product payload", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), in)
	if err != nil {
		if err == service.ErrNameRequired {
			WriteError(w, http.StatusBadRequest, "Product name is required", h.logger)
			return
		}

		h.logger.Error("failed to add product", "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to add product: %s", err), h.logger)
		return
	}

	h.logger.Info("product created",
		"product_id", product.ID,
		"name", product.Name,
		"user", userEmail(r),
	)

	WriteJSON(w, http.StatusOK, product, h.logger)
}

// DeleteRequest is the body of POST /api/products/delete
type DeleteRequest struct {
	ProductID string `json:"product_id"`
}

// DeleteProduct handles POST /api/products/delete. The delete is
// match-based: an id that matches nothing still confirms success.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode delete payload", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.logger)
		return
	}

	if err := h.service.DeleteProduct(r.Context(), req.ProductID); err != nil {
		if err == service.ErrProductIDRequired {
			WriteError(w, http.StatusBadRequest, "Product ID is required", h.logger)
			return
		}

		h.logger.Error("failed to delete product", "product_id", req.ProductID, "error", err)
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product: %s", err), h.logger)
		return
	}

	h.logger.Info("product deleted", "product_id", req.ProductID, "user", userEmail(r))

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Product %s deleted successfully", req.ProductID),
	}, h.logger)
}

func userEmail(r *http.Request) string {
	if user := middleware.UserFrom(r.Context()); user != nil {
		return user.Email
	}
	return ""
}
