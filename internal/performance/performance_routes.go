package performance

import (
	"github.com/gin-gonic/gin"

	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer rbac.Enforcer) {
	ratings := r.Group("/performance")
	ratings.Use(middleware.AuthMiddleware())
	{
		ratings.POST("", middleware.RBACAuthorize(enforcer, "performance", "rate"), handler.Create)
		ratings.GET("/:id", middleware.RBACAuthorize(enforcer, "performance", "read"), handler.GetByID)
		ratings.GET("/employee/:employeeId", middleware.RBACAuthorize(enforcer, "performance", "read"), handler.GetAllByEmployee)
	}
}
