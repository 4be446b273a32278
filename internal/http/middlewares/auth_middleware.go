package middlewares

import (
	"net/http"

	"github.com/geocoder89/coursehub/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// SessionReader is the part of the session store the guards read.
type SessionReader interface {
	Current() (user.User, bool)
}

type SessionGuard struct {
	session SessionReader
}

func NewSessionGuard(session SessionReader) *SessionGuard {
	return &SessionGuard{session: session}
}

// RequireSession turns away anonymous requests and points them at the login page.
func (m *SessionGuard) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := m.session.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "not_authenticated",
					"message": "Please log in to continue",
					"details": gin.H{"redirect": "/login"},
				},
			})
			return
		}

		c.Set(CtxUserID, u.ID)
		c.Set(CtxRole, string(u.Role))

		c.Next()
	}
}

// UserIDFromContext returns the id RequireSession stored for this request.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
