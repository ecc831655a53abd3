package models

import "github.com/golang-jwt/jwt/v4"

// JWTClaims are the claims read from the bearer token. The signature is
// checked by the gateway in front of the service.
type JWTClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	RealmAccess       struct {
		Roles []string `json:"roles"`
	} `json:"realm_access"`
}

// HasRole reports whether the realm roles include role.
func (c *JWTClaims) HasRole(role string) bool {
	for _, r := range c.RealmAccess.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ReviewerID is the identity recorded on admin reviews.
func (c *JWTClaims) ReviewerID() string {
	if c.PreferredUsername != "" {
		return c.PreferredUsername
	}
	return c.Subject
}
