package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"match-portal/match-portal-backend/internal/config"
	"match-portal/match-portal-backend/internal/notify"
	"match-portal/match-portal-backend/internal/notify/channels"
	"match-portal/match-portal-backend/internal/notify/locales"
	"match-portal/match-portal-backend/internal/suggestions"
)

// Expiry worker: sweeps suggestions whose decision deadline passed while
// still pending a party response and moves them to EXPIRED, notifying the
// matchmaker. Runs as its own binary on a cron schedule.
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

	bundle, err := locales.Load(cfg.App.DefaultLocale)
	if err != nil {
		logger.Fatal("Failed to load locales", zap.Error(err))
	}

	resolver := notify.NewContentResolver(bundle, cfg.App.PublicBaseURL, cfg.App.SupportEmail)
	notifier := notify.NewService(resolver, cfg.App.DefaultLocale, logger)
	notifier.RegisterAdapter(channels.NewEmailAdapter(cfg.Mail, logger))
	notifier.RegisterAdapter(channels.NewWhatsAppAdapter(cfg.WhatsApp, logger))

	// Expiry notices go out over email/WhatsApp only; no push for the sweep.
	repo := suggestions.NewRepository(db)
	engine := suggestions.NewEngine(repo, notifier, nil, logger, suggestions.DefaultEngineConfig())
	service := suggestions.NewService(repo, engine, logger)

	schedule := os.Getenv("EXPIRY_SCHEDULE")
	if schedule == "" {
		schedule = "@hourly"
	}

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		expired, err := service.ExpireOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("expiry sweep failed", zap.Error(err))
			return
		}
		if expired > 0 {
			logger.Info("expiry sweep done", zap.Int("expired", expired))
		}
	})
	if err != nil {
		logger.Fatal("Invalid expiry schedule", zap.String("schedule", schedule), zap.Error(err))
	}

	logger.Info("Starting expiry worker", zap.String("schedule", schedule))
	c.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Stopping expiry worker")
	<-c.Stop().Done()
}
