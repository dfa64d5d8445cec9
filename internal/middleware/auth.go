package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shadow-boy/short-uri-project/internal/service"
)

const bearerPrefix = "Bearer "

// AuthMiddleware gates a route group behind a valid bearer credential. A
// missing header, a malformed token, a bad signature and an expired token
// all produce the same 401 response.
func AuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			unauthorized(c)
			return
		}

		principal, err := auth.Authenticate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set("user_id", principal)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": "unauthorized",
	})
}
