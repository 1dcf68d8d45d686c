package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/response"
)

const ContextUsername = "username"

// Authenticate extracts the bearer token and, when it verifies as a
// non-revoked access token, establishes the caller's identity in the
// request context. It never rejects a request itself: an absent or invalid
// token just leaves the request anonymous, and whichever route-level check
// runs next decides whether anonymous is acceptable. A refresh token
// presented as a bearer credential is ignored like any other invalid token.
func Authenticate(tokens *services.TokenService, ledger *services.RevocationLedger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.Next()
			return
		}

		tokenString := parts[1]
		if !tokens.IsAccessToken(tokenString) || ledger.IsRevoked(tokenString) {
			c.Next()
			return
		}

		if username, err := tokens.Subject(tokenString); err == nil {
			c.Set(ContextUsername, username)
		}

		c.Next()
	}
}

// AuthRequired rejects requests for which Authenticate established no
// identity.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(ContextUsername); !exists {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Principal returns the authenticated username, or "" for anonymous
// requests.
func Principal(c *gin.Context) string {
	if username, exists := c.Get(ContextUsername); exists {
		return username.(string)
	}
	return ""
}
