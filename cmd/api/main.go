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

	"github.com/yourusername/gacha-api/internal/config"
	"github.com/yourusername/gacha-api/internal/handler"
	"github.com/yourusername/gacha-api/internal/middleware"
	pgRepo "github.com/yourusername/gacha-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/gacha-api/internal/repository/redis"
	"github.com/yourusername/gacha-api/internal/service"
	"github.com/yourusername/gacha-api/pkg/auth"
	"github.com/yourusername/gacha-api/pkg/database"
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

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	roomRepo := pgRepo.NewRoomRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)
	spinTokenRepo := pgRepo.NewSpinTokenRepo(db)
	rewardTierRepo := pgRepo.NewRewardTierRepo(db)
	earningRepo := pgRepo.NewEarningRepo(db)
	passwordResetRepo := pgRepo.NewPasswordResetRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем почтовый сервис: без ключа Resend письма не отправляются
	var emailService service.EmailService
	if cfg.Email.ResendAPIKey != "" {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.FromAddress)
		if err != nil {
			log.Printf("Failed to initialize ResendEmailService: %v", err)
			os.Exit(1)
		}
		log.Println("Email delivery via Resend enabled")
	} else {
		emailService = &service.NoopEmailService{}
		log.Println("RESEND_API_KEY not set, email delivery disabled")
	}

	// Инициализируем сервисы
	authService := service.NewAuthService(userRepo, passwordResetRepo, jwtService, emailService, cfg.Email.ResetBaseURL)
	adminService := service.NewAdminService(roomRepo, questionRepo, rewardTierRepo, participantRepo, userRepo)
	playService := service.NewPlayService(participantRepo, questionRepo, attemptRepo, spinTokenRepo, earningRepo, cacheRepo, db, cfg.Game.QuestionBatchSize)
	wheelService := service.NewWheelService(participantRepo, rewardTierRepo, spinTokenRepo, earningRepo, cacheRepo, db, nil)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(adminService)
	playHandler := handler.NewPlayHandler(playService, wheelService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Контекст приложения для фоновых задач
	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Периодическая очистка истекших токенов сброса пароля
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				authService.CleanupExpiredResetTokens()
			case <-appCtx.Done():
				return
			}
		}
	}()

	// Настраиваем Gin
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация администраторов
		authGroup := api.Group("/auth")
		{
			strictLimit := rateLimiter.Limit(middleware.StrictAuthRateLimitConfig())
			authGroup.POST("/register", strictLimit, authHandler.Register)
			authGroup.POST("/login", strictLimit, authHandler.Login)
			authGroup.POST("/forgot-password", strictLimit, authHandler.ForgotPassword)
			authGroup.POST("/reset-password", strictLimit, authHandler.ResetPassword)
		}

		// Игровой цикл участника: аутентификация только по коду
		play := api.Group("/play")
		{
			playLimit := rateLimiter.Limit(middleware.DefaultPlayRateLimitConfig())
			play.POST("/join", playLimit, playHandler.Join)
			play.GET("/questions", playHandler.GetQuestions)
			play.POST("/answer", playLimit, playHandler.AnswerQuestion)
			play.POST("/spin", playLimit, playHandler.Spin)
			play.GET("/status", playHandler.GetStatus)
		}

		// Административные маршруты
		rooms := api.Group("/rooms")
		rooms.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			rooms.POST("", adminHandler.CreateRoom)
			rooms.GET("", adminHandler.ListRooms)

			// Группа маршрутов, требующих roomID
			roomWithID := rooms.Group("/:id")
			roomWithID.Use(middleware.ExtractUintParam("id", "roomID"))
			{
				roomWithID.GET("", adminHandler.GetRoom)
				roomWithID.PATCH("/active", adminHandler.SetRoomActive)
				roomWithID.POST("/questions", adminHandler.CreateQuestion)
				roomWithID.POST("/questions/bulk", adminHandler.CreateQuestionsBulk)
				roomWithID.GET("/questions", adminHandler.ListQuestions)
				roomWithID.POST("/reward-tiers", adminHandler.CreateRewardTier)
				roomWithID.GET("/reward-tiers", adminHandler.ListRewardTiers)
				roomWithID.POST("/participants/generate", adminHandler.GenerateParticipants)
				roomWithID.GET("/participants", adminHandler.ListParticipants)
				roomWithID.GET("/results", adminHandler.RoomResults)
				roomWithID.GET("/results/export", adminHandler.ExportRoomResults)
			}
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

	log.Printf("Server started on port %s", cfg.Server.Port)

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Отправляем сигнал завершения для фоновых горутин
	cancel()

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
