package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spicehaven/storefront/internal/models"
)

const productsTable = "products"

// Client talks to the hosted auth+database service over its REST surface.
// Reads use the public (row-level-security constrained) key; Insert and
// Delete use the privileged service key, which must never leave the server.
type Client struct {
	baseURL    string
	anonKey    string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates a gateway client. The service key may be empty for
// clients that only need auth and reads (e.g. the admin CLI).
func NewClient(baseURL, anonKey, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SignIn exchanges email/password credentials for a bearer session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	body, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, wrap(KindStore, "failed to encode credentials", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrap(KindNetwork, "failed to reach auth service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Errf(KindAuthInvalid, readErrorMessage(resp.Body, "invalid credentials"))
	}

	var tokenResp struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   int         `json:"expires_in"`
		User        models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, wrap(KindStore, "failed to decode sign-in response", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, Errf(KindAuthInvalid, "sign-in returned no token")
	}

	return &models.Session{
		AccessToken: tokenResp.AccessToken,
		ExpiresAt:   time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
		User:        tokenResp.User,
	}, nil
}

// GetUser resolves a bearer token to the user it belongs to. The result is
// never cached: every call re-verifies the token against the gateway.
func (c *Client) GetUser(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, Errf(KindAuthMissing, "no token provided")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrap(KindNetwork, "failed to reach auth service", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Errf(KindAuthInvalid, "invalid token")
	}

	var user models.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, wrap(KindStore, "failed to decode user response", err)
	}
	if user.ID == "" {
		return nil, Errf(KindAuthInvalid, "invalid token")
	}
	return &user, nil
}

// SignOut revokes the session behind the given token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrap(KindNetwork, "failed to reach auth service", err)
	}
	defer resp.Body.Close()

	// GoTrue answers 204; an already-expired token is not worth surfacing.
	if resp.StatusCode >= http.StatusInternalServerError {
		return Errf(KindStore, readErrorMessage(resp.Body, "sign-out failed"))
	}
	return nil
}

// GetAll returns every product, newest first. Ordering is done by the
// store on created_at so concurrent inserts stay consistent.
func (c *Client) GetAll(ctx context.Context) ([]models.Product, error) {
	path := fmt.Sprintf("/rest/v1/%s?select=*&order=created_at.desc", productsTable)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req, c.anonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrap(KindNetwork, "failed to reach store", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, Errf(KindStore, readErrorMessage(resp.Body, "product query failed"))
	}

	var products []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, wrap(KindStore, "failed to decode product list", err)
	}
	return products, nil
}

// Insert creates one product using the privileged service key and returns
// the stored row with its assigned id and timestamp.
func (c *Client) Insert(ctx context.Context, in models.NewProduct) (*models.Product, error) {
	body, err := json.Marshal([]models.NewProduct{in})
	if err != nil {
		return nil, wrap(KindStore, "failed to encode product", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/"+productsTable, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.authorize(req, c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, wrap(KindNetwork, "failed to reach store", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, Errf(KindStore, readErrorMessage(resp.Body, "product insert failed"))
	}

	var created []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return nil, wrap(KindStore, "failed to decode created product", err)
	}
	if len(created) != 1 {
		return nil, Errf(KindStore, fmt.Sprintf("insert returned %d rows, want 1", len(created)))
	}
	return &created[0], nil
}

// Delete removes the product matching id using the privileged service key.
// The delete is match-based: an id that matches nothing still succeeds.
func (c *Client) Delete(ctx context.Context, id string) error {
	path := fmt.Sprintf("/rest/v1/%s?id=eq.%s", productsTable, url.QueryEscape(id))
	req, err := c.newRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}
	c.authorize(req, c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrap(KindNetwork, "failed to reach store", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return Errf(KindStore, readErrorMessage(resp.Body, "product delete failed"))
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, wrap(KindStore, "failed to create request", err)
	}
	return req, nil
}

func (c *Client) authorize(req *http.Request, key string) {
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
}

// readErrorMessage pulls a human-readable message out of the gateway's
// error body, falling back when the shape is unrecognized.
func readErrorMessage(r io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(data) == 0 {
		return fallback
	}

	var body struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		for _, msg := range []string{body.Message, body.ErrorDescription, body.Msg} {
			if msg != "" {
				return msg
			}
		}
	}
	return fallback
}
