package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/izzat2702/KognitDeck/internal/auth"
	"github.com/izzat2702/KognitDeck/internal/config"
	"github.com/izzat2702/KognitDeck/internal/database"
	"github.com/izzat2702/KognitDeck/internal/extractor"
	"github.com/izzat2702/KognitDeck/internal/generator"
	"github.com/izzat2702/KognitDeck/internal/handlers"
	"github.com/izzat2702/KognitDeck/internal/logger"
	"github.com/izzat2702/KognitDeck/internal/middleware"
	"github.com/izzat2702/KognitDeck/internal/repositories"
	"github.com/izzat2702/KognitDeck/internal/routes"
	"github.com/izzat2702/KognitDeck/internal/services"
	"github.com/izzat2702/KognitDeck/internal/validator"
	"github.com/izzat2702/KognitDeck/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	// Background usage-period sweep.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	users := repositories.NewUserRepository(gormDB)
	workers.NewRolloverWorker(users, services.NewUsageService(users)).Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	serviceContainer := initializeServices(cfg, gormDB, tokens)

	authMW := middleware.AuthMiddleware(tokens)
	appHandlers := initializeHandlers(cfg, serviceContainer, authMW)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB, tokens *auth.TokenManager) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository(gormDB)
	setRepo := repositories.NewSetRepository(gormDB)
	studyRepo := repositories.NewStudyRepository(gormDB)

	cardGen := generator.NewDeterministic()

	usageService := services.NewUsageService(userRepo)

	return &services.ServiceContainer{
		AuthService:       services.NewAuthService(userRepo, tokens),
		UserService:       services.NewUserService(userRepo),
		UsageService:      usageService,
		GenerationService: services.NewGenerationService(usageService, setRepo, cardGen, cfg.Generation.MaxCardsPerRequest),
		SetService:        services.NewSetService(setRepo, userRepo),
		StudyService:      services.NewStudyService(studyRepo, setRepo),
		AnalyticsService:  services.NewAnalyticsService(userRepo, studyRepo, setRepo),
		BillingService:    services.NewBillingService(userRepo, cfg.Stripe),
	}
}

func initializeHandlers(cfg *config.Config, svc *services.ServiceContainer, authMW gin.HandlerFunc) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	extract := extractor.NewLimited(extractor.NewRouter(), extractor.Limits{
		MaxBytes: cfg.Extract.MaxBytes,
		MaxPages: cfg.Extract.MaxPages,
		MaxWords: cfg.Extract.MaxWords,
	})

	return &handlers.AppHandlers{
		AuthHandler:       handlers.NewAuthHandler(baseHandler, svc.AuthService),
		UserHandler:       handlers.NewUserHandler(baseHandler, svc.UserService, svc.UsageService, authMW),
		GenerationHandler: handlers.NewGenerationHandler(baseHandler, svc.GenerationService, extract, cfg.Extract.MaxBytes, authMW),
		SetHandler:        handlers.NewSetHandler(baseHandler, svc.SetService, svc.StudyService, authMW),
		StudyHandler:      handlers.NewStudyHandler(baseHandler, svc.StudyService, authMW),
		AnalyticsHandler:  handlers.NewAnalyticsHandler(baseHandler, svc.AnalyticsService, authMW),
		BillingHandler:    handlers.NewBillingHandler(baseHandler, svc.BillingService, authMW),
	}
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Stripe.AppURL))
	return router
}
