package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/peridotlabs/venus-auth/internal/config"
	"github.com/peridotlabs/venus-auth/internal/handler"
	"github.com/peridotlabs/venus-auth/internal/middleware"
	pgRepo "github.com/peridotlabs/venus-auth/internal/repository/postgres"
	"github.com/peridotlabs/venus-auth/internal/service"
	"github.com/peridotlabs/venus-auth/pkg/auth"
	"github.com/peridotlabs/venus-auth/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis (rate limiting)
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	authRequestRepo := pgRepo.NewAuthRequestRepo(db)

	// Инициализируем сервисы
	resolver, err := service.NewIdentifierResolver(userRepo)
	if err != nil {
		log.Printf("Failed to initialize IdentifierResolver: %v", err)
		os.Exit(1)
	}

	provisioner, err := service.NewUserProvisioner(userRepo, service.UUIDUsernameAllocator{})
	if err != nil {
		log.Printf("Failed to initialize UserProvisioner: %v", err)
		os.Exit(1)
	}

	var emailService service.EmailService
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
	} else {
		log.Println("Email dispatch disabled, using noop email service")
		emailService = &service.NoopEmailService{}
	}

	authRequestService, err := service.NewAuthRequestService(
		authRequestRepo,
		userRepo,
		resolver,
		provisioner,
		emailService,
		service.RandomCodeGenerator{},
		cfg.Auth.CodeTTL,
		cfg.Auth.MaxAttempts,
	)
	if err != nil {
		log.Printf("Failed to initialize AuthRequestService: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(
		cfg.JWT.SecretKey,
		time.Duration(cfg.JWT.ExpirationHrs)*time.Hour,
		time.Duration(cfg.JWT.RefreshLifetimeHrs)*time.Hour,
	)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем обработчики и middleware
	authHandler := handler.NewAuthHandler(authRequestService, jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	strictLimit := middleware.StrictAuthRateLimitConfig()
	if cfg.Auth.RateLimitMax > 0 {
		strictLimit.MaxRequests = cfg.Auth.RateLimitMax
	}
	if cfg.Auth.RateLimitWindowSec > 0 {
		strictLimit.Window = time.Duration(cfg.Auth.RateLimitWindowSec) * time.Second
	}

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Printf("Failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()))
		{
			// Создание auth-запросов под строгим лимитом
			begin := authGroup.Group("/")
			begin.Use(rateLimiter.Limit(strictLimit))
			{
				begin.POST("/signup", authHandler.SignUp)
				begin.POST("/signin", authHandler.SignIn)
				begin.POST("/forgot-password", authHandler.ForgotPassword)
			}

			authGroup.POST("/verify-code", authHandler.VerifyCode)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// После получения сигнала SIGINT или SIGTERM начинаем graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
