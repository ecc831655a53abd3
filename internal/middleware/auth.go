package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/securevote/app-verify/internal/config"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// ErrClaimsNotFound is returned when no authenticated claims are on the context.
var ErrClaimsNotFound = errors.New("claims not found")

// AuthMiddleware extracts the JWT claims from the request
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		// The token is validated by the gateway, we only read the claims
		claims, err := extractClaims(parts[1])
		if err != nil {
			observability.Logger().Error("failed to extract claims from token", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func extractClaims(token string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse claims: %w", err)
	}
	return claims, nil
}

// RequireAdmin checks that the caller holds the configured admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := ClaimsFromContext(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Claims not found"})
			return
		}

		if !claims.HasRole(config.AppConfig.AdminGroup) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}

		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware
func ClaimsFromContext(c *gin.Context) (*models.JWTClaims, error) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, ErrClaimsNotFound
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims type %T", value)
	}
	return claims, nil
}

// ReviewerID returns the identity of the authenticated admin
func ReviewerID(c *gin.Context) (string, error) {
	claims, err := ClaimsFromContext(c)
	if err != nil {
		return "", err
	}
	id := claims.ReviewerID()
	if id == "" {
		return "", fmt.Errorf("token carries no subject")
	}
	return id, nil
}
