package handler

import (
	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"github.com/cleberrangel/houseforge-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

// RouterConfig reúne as dependências das rotas
type RouterConfig struct {
	TokenAPI  string
	Auth      *service.AuthService
	Estimates *service.EstimateService
	Projects  *service.ProjectService
	Hub       *websocket.Hub
	Health    *HealthHandler
	Limiter   *middleware.RateLimiter
}

// NewRouter monta o roteador com a API de máquina (/api/v1, token Bearer),
// a área web (/api/web, sessão + CSRF), o websocket e os health checks
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID()) // Request ID + logging estruturado
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.AuditMiddleware())

	// Health check e métricas (públicos)
	r.GET("/health", cfg.Health.DetailedHealthCheck)
	r.GET("/health/live", cfg.Health.LivenessCheck)
	r.GET("/health/ready", cfg.Health.ReadinessCheck)
	r.GET("/metrics", cfg.Health.GetMetrics)
	r.GET("/metrics/summary", cfg.Health.GetMetricsSummary)
	r.GET("/metrics/endpoints", cfg.Health.GetEndpointMetrics)

	estimateHandler := NewEstimateHandler(cfg.Estimates)
	projectHandler := NewProjectHandler(cfg.Projects, cfg.Estimates)
	authHandler := NewAuthHandler(cfg.Auth)
	wsHandler := NewWebSocketHandler(cfg.Hub)

	auth := cfg.Auth.GetAuthMiddleware()
	csrf := cfg.Auth.GetCSRFMiddleware()

	api := r.Group("/api/v1")
	api.Use(middleware.BearerAuth(middleware.AuthConfig{
		TokenAPI: cfg.TokenAPI,
	}))
	api.Use(cfg.Limiter.Middleware())
	{
		api.POST("/estimates", estimateHandler.Estimate)
		api.POST("/estimates/summary", estimateHandler.Summary)
		api.POST("/estimates/export", estimateHandler.Export)
	}

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/login", cfg.Limiter.Middleware(), authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", auth.RequireAuth(), authHandler.GetCurrentUser)
		authGroup.PUT("/password", auth.RequireAuth(), csrf.RequireCSRF(), authHandler.UpdatePassword)
	}

	web := r.Group("/api/web")
	web.Use(auth.RequireAuth())
	web.Use(csrf.RequireCSRF())
	{
		web.POST("/projects", projectHandler.Create)
		web.GET("/projects", projectHandler.List)
		web.GET("/projects/:id", projectHandler.Get)
		web.PUT("/projects/:id", projectHandler.Update)
		web.DELETE("/projects/:id", projectHandler.Delete)
		web.PUT("/projects/:id/status", projectHandler.UpdateStatus)
		web.GET("/projects/:id/export", projectHandler.Export)
		web.GET("/ws/connections", wsHandler.GetUserConnections)
	}

	r.GET("/ws", websocket.AuthMiddleware(auth), wsHandler.HandleConnection)

	return r
}
