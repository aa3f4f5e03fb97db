package salary

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer rbac.Enforcer, rdb *redis.Client) {
	salaries := r.Group("/salaries")
	salaries.Use(middleware.AuthMiddleware())
	salaries.Use(middleware.RateLimitByActor(rate.Limit(20), 40))
	{
		salaries.POST("", middleware.Idempotency(rdb), middleware.RBACAuthorize(enforcer, "salary", "manage"), handler.Create)
		salaries.POST("/:id/score", middleware.Idempotency(rdb), middleware.RBACAuthorize(enforcer, "salary", "manage"), handler.Score)
		salaries.GET("/:id", middleware.RBACAuthorize(enforcer, "salary", "read"), handler.GetByID)
		salaries.GET("/:id/payslip", middleware.RBACAuthorize(enforcer, "salary", "read"), handler.Payslip)
		salaries.GET("/employee/:employeeId", middleware.RBACAuthorize(enforcer, "salary", "read"), handler.GetAllByEmployee)
	}
}
