// Package auth exchanges party API keys for the short-lived JWTs the claims
// API requires.
package auth

import (
	"time"

	id "byggekrav/pkg/domain"
)

// Credential is one party member's API credential. Only the bcrypt hash of
// the key is stored.
type Credential struct {
	PartyID    id.PartyID
	Role       string
	APIKeyHash string
	CreatedAt  time.Time
}

// TokenResult is an issued access token.
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int
}
