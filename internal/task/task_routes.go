package task

import (
	"github.com/gin-gonic/gin"

	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer rbac.Enforcer) {
	tasks := r.Group("/tasks")
	tasks.Use(middleware.AuthMiddleware())
	{
		tasks.GET("", middleware.RBACAuthorize(enforcer, "task", "read"), handler.GetAll)
		tasks.GET("/:id", middleware.RBACAuthorize(enforcer, "task", "read"), handler.GetByID)
		tasks.POST("", middleware.RBACAuthorize(enforcer, "task", "assign"), handler.Assign)
		tasks.POST("/:id/status", middleware.RBACAuthorize(enforcer, "task", "advance"), handler.Advance)
	}
}
