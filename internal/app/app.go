package app

import (
	"database/sql"
	"fmt"
	"log"

	"zhasqoldau/internal/config"
	"zhasqoldau/internal/handlers"
	"zhasqoldau/internal/middleware"
	"zhasqoldau/internal/pdf"
	"zhasqoldau/internal/repositories"
	"zhasqoldau/internal/routes"
	"zhasqoldau/internal/services"
	"zhasqoldau/internal/storage"
	"zhasqoldau/internal/utils"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "zhasqoldau/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Ошибка подключения к БД: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка закрытия БД: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOtpRepository(db)

	// === Storage ===
	store, err := storage.NewProvider(cfg)
	if err != nil {
		log.Fatal("Ошибка инициализации хранилища: ", err)
	}

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)

	// Канал доставки кода: SMS (Mobizon) или email
	var sender services.CodeSender
	switch cfg.Otp.Channel {
	case "email":
		sender = services.NewEmailSender(emailService)
	default:
		mobizonClient := utils.NewClientWithOptions(
			cfg.Mobizon.APIKey,
			cfg.Mobizon.SenderID,
			cfg.Mobizon.DryRun,
		)
		sender = services.NewSMSSender(mobizonClient)
	}

	otpService := services.NewOtpService(
		otpRepo, userRepo, sender,
		cfg.Otp.TTL, cfg.Otp.ResendCooldown,
		cfg.Otp.MaxResends, cfg.Otp.MaxAttempts,
		cfg.Otp.SendTimeout,
	)

	tokenService := services.NewTokenService(
		cfg.Tokens.AccessSecret, cfg.Tokens.RefreshSecret,
		cfg.Tokens.AccessTTL, cfg.Tokens.RefreshTTL,
	)

	// PDF генератор анкеты (нужен TTF с кириллицей)
	pdfGen := pdf.NewSheetGenerator(cfg.Files.RootDir, cfg.Files.FontPath)

	registrationService := services.NewRegistrationService(userRepo, store, cfg.Files.MaxFileSize)
	registrationService.PdfGen = pdfGen
	registrationService.Email = emailService

	// Telegram-оповещения (необязательные)
	notifier, err := services.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.OpsChatID)
	if err != nil {
		log.Printf("Telegram отключён: %v", err)
	} else if notifier != nil {
		registrationService.Notify = notifier
	}

	// === Throttle ===
	throttle := middleware.NewThrottle(map[string]middleware.ThrottleRule{
		middleware.RouteDefault: {Limit: cfg.Throttle.Limit, Window: cfg.Throttle.Window},
		middleware.RouteOtpSend: {Limit: cfg.Throttle.OtpLimit, Window: cfg.Throttle.OtpWindow},
	})

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(otpService, tokenService, userRepo)
	registerHandler := handlers.NewRegisterHandler(registrationService, cfg.Files.MaxFormSize)

	// === Gin ===
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, throttle, tokenService, authHandler, registerHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Сервер запущен на %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Ошибка запуска сервера: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
