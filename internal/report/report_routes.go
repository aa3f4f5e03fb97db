package report

import (
	"github.com/gin-gonic/gin"

	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer rbac.Enforcer) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware())
	{
		reports.GET("/hr", middleware.RBACAuthorize(enforcer, "report", "read"), handler.Build)
	}
}
