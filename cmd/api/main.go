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
	"github.com/go-redis/redis/v8"

	"github.com/yourusername/exam-portal/internal/config"
	"github.com/yourusername/exam-portal/internal/domain/repository"
	"github.com/yourusername/exam-portal/internal/handler"
	"github.com/yourusername/exam-portal/internal/middleware"
	"github.com/yourusername/exam-portal/internal/repository/gas"
	"github.com/yourusername/exam-portal/internal/repository/memory"
	redisRepo "github.com/yourusername/exam-portal/internal/repository/redis"
	"github.com/yourusername/exam-portal/internal/service"
	"github.com/yourusername/exam-portal/pkg/database"
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

	// Адрес сервиса обязателен: без него портал не может ничего сделать
	endpoint, err := config.LoadEndpoint(cfg.Service.EndpointFile)
	if err != nil {
		log.Printf("Failed to load service endpoint: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Хранилище сессий: память процесса или Redis
	var (
		sessionRepo repository.SessionRepository
		cacheRepo   repository.CacheRepository
		redisClient redis.UniversalClient
		rateLimiter *middleware.RateLimiter
	)
	switch cfg.Session.Store {
	case "redis":
		redisClient, err = database.NewUniversalRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Printf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Println("Successfully connected to Redis")

		redisCache, err := redisRepo.NewCacheRepo(redisClient, cfg.Session.KeyPrefix)
		if err != nil {
			log.Printf("Failed to initialize CacheRepo: %v", err)
			os.Exit(1)
		}
		cacheRepo = redisCache
		sessionRepo = redisRepo.NewSessionRepo(redisCache, cfg.Session.TTL)
		rateLimiter = middleware.NewRateLimiter(redisCache)
	default:
		sessionRepo = memory.NewSessionRepo(cfg.Session.TTL)
		log.Println("Using in-memory session store")
	}

	// Клиент удаленного сервиса
	backend := gas.NewClient(endpoint, &http.Client{Timeout: cfg.Service.Timeout})

	// Сервисы
	authService := service.NewAuthService(backend, cfg.Exam.AdminUsername)
	examService := service.NewExamService(backend, service.ExamConfig{
		PassThreshold: cfg.Exam.PassThreshold,
		SubmitTimeout: cfg.Service.SubmitTimeout,
	})
	resultService := service.NewResultService(backend, cacheRepo, cfg.Service.ResultsCacheTTL)

	// Обработчики
	sessions := middleware.NewSessionMiddleware(sessionRepo, cfg.Session.CookieName, middleware.NewKeyedMutex())
	routes := handler.Routes{
		Auth: handler.NewAuthHandler(authService, examService, sessions, handler.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.CookieSecure,
		}),
		Exam:     handler.NewExamHandler(examService),
		Results:  handler.NewResultHandler(resultService),
		Sessions: sessions,
	}

	router := gin.Default()

	// В production не доверяем прокси-заголовкам, в development доверяем localhost
	trusted := []string{"127.0.0.1", "::1"}
	if gin.Mode() == gin.ReleaseMode {
		trusted = nil
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	if rateLimiter != nil {
		api.Use(rateLimiter.LimitByIP(middleware.RateLimitConfig{
			MaxRequests: cfg.Server.RateLimit.MaxRequests,
			Window:      cfg.Server.RateLimit.Window,
			KeyPrefix:   "rl:api",
		}))
	}
	routes.Register(api)

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
			cancel()
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	log.Println("Shutting down server...")

	// Ждем завершения запросов, в том числе сохранения результатов
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	log.Println("Server exited properly")
}
