package employee

import (
	"go-employee/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the employee pages at the root and under /Home.
// rdb may be nil, in which case POSTs are not idempotent.
func RegisterRoutes(
	r gin.IRouter,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	guards := []gin.HandlerFunc{middleware.RateLimitByIP(1, 5)}
	if rdb != nil {
		guards = append(guards, middleware.Idempotency(rdb, logger))
	}
	write := func(h gin.HandlerFunc) []gin.HandlerFunc {
		chain := make([]gin.HandlerFunc, 0, len(guards)+1)
		return append(append(chain, guards...), h)
	}

	root := r.Group("")
	root.Use(middleware.ContextLogger(logger))
	{
		root.GET("/", handler.List)
		root.GET("/Details", handler.Details)
		root.GET("/Create", handler.CreateForm)
		root.POST("/Create", write(handler.Create)...)
		root.GET("/Edit", handler.EditForm)
		root.POST("/Edit", write(handler.Update)...)
	}

	home := r.Group("/Home")
	home.Use(middleware.ContextLogger(logger))
	{
		home.GET("", handler.List)
		home.GET("/Index", handler.List)
		home.GET("/Details", handler.Details)
		home.GET("/Details/:id", handler.Details)
		home.GET("/Create", handler.CreateForm)
		home.POST("/Create", write(handler.Create)...)
		home.GET("/Edit", handler.EditForm)
		home.GET("/Edit/:id", handler.EditForm)
		home.POST("/Edit", write(handler.Update)...)
	}
}
