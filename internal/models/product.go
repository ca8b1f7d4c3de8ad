package models

import "time"

// Product represents a catalog item stored by the gateway.
// The ID and CreatedAt fields are assigned by the store; products are
// created and deleted but never updated in place.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProduct is the payload for creating a product. Only Name is required.
type NewProduct struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}
