package models

import "time"

// User is an identity resolved by the gateway from a bearer token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a bearer credential issued by the gateway on sign-in.
// The token is opaque; it is attached as "Authorization: Bearer <token>"
// on every mutating request and resolved fresh by the server each time.
type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	User        User      `json:"user"`
}
