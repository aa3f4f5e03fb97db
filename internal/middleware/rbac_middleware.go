package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akashvinod-2003/empmanage/internal/rbac"
	"github.com/akashvinod-2003/empmanage/internal/shared/response"
)

// RBACAuthorize checks the caller's role against the policy for one
// resource/action pair. Must run after AuthMiddleware.
func RBACAuthorize(enforcer rbac.Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
			c.Abort()
			return
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL", "authorization check failed", nil)
			c.Abort()
			return
		}
		if !allowed {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "you are not allowed to perform this action", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
