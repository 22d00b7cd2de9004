package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"match-portal/match-portal-backend/internal/auth"
	"match-portal/match-portal-backend/internal/config"
	"match-portal/match-portal-backend/internal/notify"
	"match-portal/match-portal-backend/internal/notify/channels"
	"match-portal/match-portal-backend/internal/notify/locales"
	"match-portal/match-portal-backend/internal/notify/push"
	"match-portal/match-portal-backend/internal/suggestions"
	"match-portal/match-portal-backend/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.Database.GetDatabaseURL()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(&users.User{}, &suggestions.Suggestion{}, &suggestions.StatusHistory{}); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	bundle, err := locales.Load(cfg.App.DefaultLocale)
	if err != nil {
		logger.Fatal("Failed to load locales", zap.Error(err))
	}

	// ---------------- NOTIFICATIONS ----------------
	resolver := notify.NewContentResolver(bundle, cfg.App.PublicBaseURL, cfg.App.SupportEmail)
	notifier := notify.NewService(resolver, cfg.App.DefaultLocale, logger)

	emailAdapter := channels.NewEmailAdapter(cfg.Mail, logger)
	emailAdapter.Verify()
	notifier.RegisterAdapter(emailAdapter)
	notifier.RegisterAdapter(channels.NewWhatsAppAdapter(cfg.WhatsApp, logger))

	usersRepo := users.NewRepository(db)
	pushSender := push.NewSender(context.Background(), cfg.Push, usersRepo, logger)

	// ---------------- SUGGESTIONS ----------------
	suggestionsRepo := suggestions.NewRepository(db)
	engine := suggestions.NewEngine(suggestionsRepo, notifier, pushSender, logger, suggestions.DefaultEngineConfig())
	suggestionsService := suggestions.NewService(suggestionsRepo, engine, logger)
	suggestionsHandler := suggestions.NewHandler(suggestionsService)
	usersHandler := users.NewHandler(usersRepo, bundle)

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "API alive!"})
	})

	v1 := r.Group("/api/v1")
	v1.Use(auth.Middleware(cfg.App.JWTSecret))
	suggestionsHandler.RegisterRoutes(v1)
	usersHandler.RegisterRoutes(v1)

	addr := cfg.Server.GetServerAddr()
	logger.Info("Server running", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
