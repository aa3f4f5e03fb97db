package leave

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/akashvinod-2003/empmanage/internal/middleware"
	"github.com/akashvinod-2003/empmanage/internal/rbac"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, enforcer rbac.Enforcer, rdb *redis.Client) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	leaves.Use(middleware.RateLimitByActor(rate.Limit(20), 40))
	{
		leaves.GET("", middleware.RBACAuthorize(enforcer, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(enforcer, "leave", "read"), handler.GetByID)
		leaves.POST("", middleware.Idempotency(rdb), middleware.RBACAuthorize(enforcer, "leave", "submit"), handler.Submit)
		leaves.POST("/:id/decision", middleware.Idempotency(rdb), middleware.RBACAuthorize(enforcer, "leave", "decide"), handler.Decide)
		leaves.POST("/:id/revoke", middleware.Idempotency(rdb), middleware.RBACAuthorize(enforcer, "leave", "revoke"), handler.Revoke)
	}
}
