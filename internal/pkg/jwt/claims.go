// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by merchant access tokens
type Claims struct {
	MerchantID int64  `json:"merchant_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token belongs to a platform operator
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// HasAudience checks if the expected audience is listed in the claims.
func (c *Claims) HasAudience(audience string) bool {
	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}
	return false
}
