package tasks

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose restricts a token to a single designed flow.
type TokenPurpose string

const (
	// PurposeAccess marks bearer tokens minted at login
	PurposeAccess TokenPurpose = "access"
	// PurposeConfirmation marks one-time email confirmation tokens
	PurposeConfirmation TokenPurpose = "confirmation"
)

// Valid reports whether the purpose is one of the known tags.
func (p TokenPurpose) Valid() bool {
	return p == PurposeAccess || p == PurposeConfirmation
}

// TokenClaims is the claim set carried by every token this service signs.
// Purpose travels in the "type" claim to stay wire-compatible with clients
// that already decode {sub, exp, type}.
type TokenClaims struct {
	jwt.RegisteredClaims
	TokenType TokenPurpose `json:"type,omitempty"`
}

// Subject returns the subject claim, the owning user's email.
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Purpose returns the purpose tag
func (c *TokenClaims) Purpose() TokenPurpose {
	return c.TokenType
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
