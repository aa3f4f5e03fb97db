package attendance

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer rbac.Enforcer, rdb *redis.Client) {
	attendances := r.Group("/attendance")
	attendances.Use(middleware.AuthMiddleware())
	attendances.Use(middleware.RateLimitByActor(rate.Limit(20), 40))
	{
		attendances.GET("", middleware.RBACAuthorize(enforcer, "attendance", "read"), handler.GetAll)
		attendances.POST("", middleware.Idempotency(rdb), middleware.RBACAuthorize(enforcer, "attendance", "record"), handler.Record)
		attendances.POST("/:id/review", middleware.Idempotency(rdb), middleware.RBACAuthorize(enforcer, "attendance", "review"), handler.Review)
	}
}
