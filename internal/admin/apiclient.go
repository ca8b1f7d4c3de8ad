package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spicehaven/storefront/internal/models"
)

// APIClient is a typed client for the storefront API's three product
// endpoints. Mutating calls carry the caller's bearer token; the list
// endpoint is public and sends none.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewAPIClient creates a client for the storefront API at baseURL.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// List fetches the full catalog, newest first.
func (c *APIClient) List(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/products", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var products []models.Product
	if err := c.do(req, http.StatusOK, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Add creates a product using the given bearer token.
func (c *APIClient) Add(ctx context.Context, token string, in models.NewProduct) (*models.Product, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/products", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	var product models.Product
	if err := c.do(req, http.StatusOK, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Delete removes a product by id using the given bearer token and returns
// the server's confirmation message.
func (c *APIClient) Delete(ctx context.Context, token, id string) (string, error) {
	body, err := json.Marshal(map[string]string{"product_id": id})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/products/delete", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(req, http.StatusOK, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// do executes the request, decoding into out on the wanted status and into
// the API's fixed {"error": message} shape on anything else.
func (c *APIClient) do(req *http.Request, want int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return fmt.Errorf("%s", body.Error)
	}
	return fmt.Errorf("unexpected status %d", resp.StatusCode)
}
