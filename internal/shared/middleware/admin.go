package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newsroom-backend/internal/domains/access"
)

// RequireRole admits principals matching pred. Use after Session + RequireSession.
//
//	admin.Use(middleware.RequireRole(access.IsStaff))
func RequireRole(pred access.Predicate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !pred(GetPrincipal(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTH_003",
					"message": "Access denied: insufficient role",
				},
			})
			return
		}
		c.Next()
	}
}
