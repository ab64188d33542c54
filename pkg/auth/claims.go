package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityPayload captures the data used when minting an identity token.
type IdentityPayload struct {
	UserID string
	Email  string
	Role   string
}

// AppMetadata is the provider-managed metadata block; roles granted by
// operators live here rather than in user-editable metadata.
type AppMetadata struct {
	Role string `json:"role,omitempty"`
}

// IdentityClaims are the claims carried by access tokens from the hosted identity provider.
type IdentityClaims struct {
	Email       string      `json:"email,omitempty"`
	Role        string      `json:"role,omitempty"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

// UserID returns the subject of the token.
func (c *IdentityClaims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}

// HasRole reports whether the operator-assigned role matches role.
func (c *IdentityClaims) HasRole(role string) bool {
	if c == nil || strings.TrimSpace(role) == "" {
		return false
	}
	return strings.EqualFold(c.AppMetadata.Role, role)
}
