// Package httpapi exposes the gift engine as a JSON API over gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JamesPrial/gift-tracker/internal/config"
	"github.com/JamesPrial/gift-tracker/internal/gift"
)

// NewRouter wires middleware and routes. A nil logger disables request
// logging.
func NewRouter(engine *gift.Engine, cfg config.HTTP, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	mode := gin.ReleaseMode
	switch cfg.GinMode {
	case gin.DebugMode, gin.TestMode:
		mode = cfg.GinMode
	}
	if gin.Mode() != mode {
		gin.SetMode(mode)
	}

	r := gin.New()
	r.Use(requestLogger(logger), recovery(logger))

	if len(cfg.AllowedOrigins) > 0 {
		corsCfg := cors.Config{
			AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}
		if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
			corsCfg.AllowAllOrigins = true
		} else {
			corsCfg.AllowOrigins = cfg.AllowedOrigins
		}
		r.Use(cors.New(corsCfg))
	}

	if cfg.RateLimitPerMinute > 0 {
		r.Use(rateLimit(cfg.RateLimitPerMinute))
	}

	h := &handler{engine: engine, logger: logger}
	r.NoRoute(func(ctx *gin.Context) {
		fail(ctx, http.StatusNotFound, codeNotFound, "route not found")
	})

	api := r.Group("/api")
	{
		api.GET("/state", h.getState)
		api.GET("/stats", h.getStats)
		api.GET("/friends", h.listFriends)

		api.GET("/tasks", h.listTasks)
		api.GET("/tasks/today", h.todayTasks)
		api.GET("/tasks/:id", h.getTask)
		api.POST("/tasks", h.addTask)
		api.PATCH("/tasks/:id", h.updateTask)
		api.POST("/tasks/:id/done", h.completeTask)
		api.POST("/tasks/:id/rest", h.restTask)
		api.DELETE("/tasks/:id", h.deleteTask)

		api.GET("/goals", h.listGoals)
		api.GET("/goals/:id", h.getGoal)
		api.POST("/goals", h.startGoal)

		api.POST("/moments", h.addMoment)
		api.DELETE("/moments/:id", h.deleteMoment)

		api.POST("/videos", h.generateVideo)
		api.DELETE("/videos/:id", h.deleteVideo)

		api.POST("/warmth", h.addWarmth)
		api.POST("/reset", h.reset)
	}
	return r
}
