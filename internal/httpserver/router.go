package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"clinicboard/internal/handler"
	"clinicboard/internal/service"
	"clinicboard/pkg/mq"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	authHandler *handler.AuthHandler,
	onboardingHandler *handler.OnboardingHandler,
	taskHandler *handler.TaskHandler,
	teamHandler *handler.TeamHandler,
	settingsHandler *handler.SettingsHandler,
	authService *service.AuthService,
	jwtSecret string,
	pool *pgxpool.Pool,
	publisher *mq.Publisher,
	logger *zap.Logger,
) *Router {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(MetricsMiddleware())

	// Public
	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unreachable"})
			return
		}
		if !publisher.IsConnected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "message queue unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected
	auth := r.Group("/")
	auth.Use(AuthMiddleware(jwtSecret, authService))
	{
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
		auth.POST("/onboarding", onboardingHandler.Complete)

		auth.GET("/tasks", taskHandler.List)
		auth.POST("/tasks", taskHandler.Create)
		auth.GET("/tasks/:id", taskHandler.Get)
		auth.PATCH("/tasks/:id", taskHandler.Update)
		auth.POST("/tasks/:id/complete", taskHandler.Complete)
		auth.POST("/tasks/:id/subtasks", taskHandler.AddSubtask)
		auth.GET("/tasks/:id/comments", taskHandler.Comments)
		auth.POST("/tasks/:id/comments", taskHandler.AddComment)
		auth.POST("/subtasks/:id/toggle", taskHandler.ToggleSubtask)

		auth.GET("/team", teamHandler.Members)
		auth.POST("/team/invite", teamHandler.Invite)

		auth.PUT("/organization", settingsHandler.Update)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
