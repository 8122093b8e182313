package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/cache"
	"github.com/cleberrangel/houseforge-api/internal/config"
	"github.com/cleberrangel/houseforge-api/internal/database"
	"github.com/cleberrangel/houseforge-api/internal/estimator"
	"github.com/cleberrangel/houseforge-api/internal/handler"
	"github.com/cleberrangel/houseforge-api/internal/logger"
	"github.com/cleberrangel/houseforge-api/internal/metrics"
	"github.com/cleberrangel/houseforge-api/internal/middleware"
	"github.com/cleberrangel/houseforge-api/internal/migration"
	"github.com/cleberrangel/houseforge-api/internal/repository"
	"github.com/cleberrangel/houseforge-api/internal/service"
	"github.com/cleberrangel/houseforge-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	metrics.Init()
	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("model_version", estimator.ModelVersion).
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Bool("log_json", cfg.LogJSON).
		Msg("HouseForge API iniciando")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Banco de dados
	db, err := database.Connect(ctx, database.FromAppConfig(cfg.DB))
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao conectar ao banco de dados")
	}
	defer database.Close(db)

	if err := migration.NewMigrator(db).Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Erro ao executar migrações")
	}

	// Inicializa dependências
	projectCache := cache.NewCache(cfg.ProjectCacheTTL)
	defer projectCache.Stop()

	hub := websocket.NewHub()
	hub.AllowOrigins(cfg.WSAllowedOrigins...)
	go hub.Run(ctx)

	estimateService := service.NewEstimateService()
	projectService := service.NewProjectService(repository.NewProjectRepository(db), estimateService, projectCache, hub)

	authService, err := service.NewAuthService(ctx, repository.NewUserRepository(db), service.AuthConfig{
		SessionDuration: cfg.SessionDuration,
		CookieSecure:    cfg.GinMode == gin.ReleaseMode,
		AdminUsername:   cfg.AdminUsername,
		AdminPassword:   cfg.AdminPassword,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao inicializar autenticação")
	}
	authService.StartSessionCleanup(ctx, 15*time.Minute)

	limiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		RequestsPerMinute: cfg.EstimateRatePerMinute,
		Burst:             cfg.EstimateBurst,
	})
	limiter.StartEviction(ctx.Done())

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	r := handler.NewRouter(handler.RouterConfig{
		TokenAPI:  cfg.TokenAPI,
		Auth:      authService,
		Estimates: estimateService,
		Projects:  projectService,
		Hub:       hub,
		Health:    handler.NewHealthHandler(db, hub, projectCache, Version),
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Servidor iniciando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Erro ao encerrar servidor")
	}
	log.Info().Msg("Servidor encerrado")
}
