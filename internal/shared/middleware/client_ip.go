package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"newsroom-backend/internal/shared/utils"
)

type clientIPKey struct{}

// ClientIPMiddleware resolves the caller IP once; poll votes from gate readers
// are keyed on it.
//
//	router.Use(middleware.ClientIPMiddleware())
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)
		ctx := context.WithValue(c.Request.Context(), clientIPKey{}, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from context
// Returns empty string if not found
func GetClientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
