// Package middleware provides the gin middleware chain: authentication,
// request logging and metrics.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vacanza-be/internal/auth"
)

const userIDKey = "userID"

// RequireAuth rejects requests without a valid bearer access token and
// stores the authenticated user's ID in the request context.
func RequireAuth(tokens *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be a bearer token"})
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// GetUserID returns the authenticated user's ID set by RequireAuth.
// Returns 0 if the request is unauthenticated.
func GetUserID(c *gin.Context) int64 {
	id, _ := c.Get(userIDKey)
	userID, _ := id.(int64)
	return userID
}
