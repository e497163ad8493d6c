package handler

import (
	"net/http"

	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/metrics"
	"github.com/TheBugSlayer11/Skill-Swap-Platform/internal/middleware"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	SwapHandler   *SwapHandler
	UserHandler   *UserHandler
	AdminHandler  *AdminHandler
	StreamHandler *EventStreamHandler

	IdentityHeader    string
	IdentityJWTSecret string
	CORSOrigins       []string
	IsProduction      bool

	// SwapLimiter throttles swap mutations per user; nil disables it.
	SwapLimiter *middleware.RateLimiter
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins, cfg.IdentityHeader))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.HSTSMiddleware(cfg.IsProduction))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(middleware.IdentityMiddleware(cfg.IdentityHeader, cfg.IdentityJWTSecret))

	var throttle gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.SwapLimiter != nil {
		throttle = cfg.SwapLimiter.Middleware()
	}

	if h := cfg.SwapHandler; h != nil {
		swaps := api.Group("/swaps")
		{
			swaps.POST("/request", throttle, h.Create)
			swaps.GET("/my-swaps", h.ListMine)
			swaps.GET("/:id", h.Get)
			swaps.PUT("/accept/:id", throttle, h.Accept)
			swaps.PUT("/reject/:id", throttle, h.Reject)
			swaps.PUT("/cancel/:id", throttle, h.Cancel)
			swaps.DELETE("/cancel/:id", throttle, h.Cancel)
			swaps.PUT("/complete/:id", throttle, h.Complete)
			swaps.POST("/feedback/:id", throttle, h.Feedback)
		}
	}

	if h := cfg.UserHandler; h != nil {
		users := api.Group("/users")
		{
			users.POST("", h.Register)
			users.GET("", h.ListPublic)
			users.PUT("/me", h.UpdateMe)
			users.GET("/me/inbox", h.Inbox)
			users.GET("/:id", h.Get)
		}
	}

	if h := cfg.AdminHandler; h != nil {
		admin := api.Group("/admin")
		{
			admin.GET("/users", h.GetAllUsers)
			admin.DELETE("/users/:id", h.DeleteUser)
			admin.PUT("/ban/:id", h.BanUser)
			admin.PUT("/unban/:id", h.UnbanUser)
			admin.GET("/swaps", h.ListSwaps)
			admin.DELETE("/swaps/:id", h.DeleteSwap)
			admin.POST("/broadcast", h.Broadcast)
			admin.GET("/broadcasts", h.ListBroadcasts)
			admin.GET("/stats", h.Stats)
		}
	}

	if cfg.StreamHandler != nil {
		api.GET("/ws/events", cfg.StreamHandler.HandleStream)
	}

	return r
}
