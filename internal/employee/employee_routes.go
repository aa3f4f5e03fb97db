package employee

import (
	"github.com/gin-gonic/gin"

	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer rbac.Enforcer) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.GET("", middleware.RBACAuthorize(enforcer, "employee", "read"), handler.GetAll)
		employees.GET("/:id", middleware.RBACAuthorize(enforcer, "employee", "read"), handler.GetByID)
		employees.POST("", middleware.RBACAuthorize(enforcer, "employee", "manage"), handler.Create)
		employees.PUT("/:id", middleware.RBACAuthorize(enforcer, "employee", "manage"), handler.Update)
		employees.DELETE("/:id", middleware.RBACAuthorize(enforcer, "employee", "manage"), handler.Delete)
	}
}
