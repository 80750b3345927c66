package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"imobcrm/internal/pkg/response"
)

// Operator roles carried in tokens.
const (
	RoleAdmin      = "admin"
	RoleBroker     = "broker"
	RoleDispatcher = "dispatcher"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		current, isString := role.(string)
		if !ok || !isString {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}

		response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
	}
}
