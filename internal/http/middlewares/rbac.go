package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole must run after RequireSession. Other roles are sent back home.
func (m *SessionGuard) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "not_authenticated",
					"message": "Missing session context",
					"details": gin.H{"redirect": "/login"},
				},
			})
			return
		}
		if role != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Admin role required",
					"details": gin.H{"redirect": "/"},
				},
			})
			return
		}
		c.Next()
	}
}
