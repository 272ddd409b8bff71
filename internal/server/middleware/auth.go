// Package middleware provides the gin middleware protecting the upload
// routes.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gontarzpawel/photo-pigeon-send/internal/analytics"
	"github.com/gontarzpawel/photo-pigeon-send/internal/server/auth"
)

// Context keys set for downstream handlers.
const (
	UsernameKey = "username"
	RoleKey     = "role"
)

// Auth validates the bearer token on every request and stores the
// authenticated identity in the gin context. Analytics identification runs
// asynchronously so tracking never delays a request.
func Auth(secretKey []byte, sink analytics.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			return
		}

		claims, err := auth.ParseToken(headerParts[1], secretKey)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UsernameKey, claims.Username)
		c.Set(RoleKey, claims.Role)

		// The request may finish before the report goes out, so copy what
		// the goroutine needs.
		endpoint, method := c.Request.URL.Path, c.Request.Method
		go func() {
			_ = sink.Identify(context.Background(), claims.Username, analytics.Properties{
				"endpoint": endpoint,
				"method":   method,
				"role":     claims.Role,
			})
		}()

		c.Next()
	}
}
