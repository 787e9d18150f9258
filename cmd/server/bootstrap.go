package main

import (
	"github.com/projhub/backend/internal/config"
	"github.com/projhub/backend/internal/handlers"
	"github.com/projhub/backend/internal/models"
	"github.com/projhub/backend/internal/services"
	"github.com/projhub/backend/internal/utils"
	"github.com/projhub/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the
// application.
type appServices struct {
	notifier     *services.NotificationService
	taskQueue    services.TaskQueue
	worker       *services.Worker
	cleanupCron  *cron.Cron
	authHandler  *handlers.AuthHandler
	projHandler  *handlers.ProjectHandler
	archHandler  *handlers.ArchivalHandler
	notifHandler *handlers.NotificationHandler
	userHandler  *handlers.UserHandler
	logHandler   *handlers.SystemLogHandler
}

// bootstrap initializes all application dependencies: database, storage,
// notification pipeline and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedDefaultData(cfg.JWT.AdminPassword); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	db := models.GetDB()

	services.InitSystemLogger(db)
	cleanupCron := services.StartLogCleanupScheduler(db, cfg.Log.RetentionDays)

	storage := services.NewLocalStorage(&cfg.Storage)

	// Notification pipeline: intents collected by the lifecycle services
	// are enqueued post-commit and processed by the notifier.
	var channel services.NotifyChannel
	if cfg.Notify.WebhookURL != "" {
		channel = services.NewWebhookChannel(&cfg.Notify)
	} else {
		channel = services.LogChannel{}
	}
	notifier := services.NewNotificationService(db, channel)

	taskQueue := services.InitTaskQueue(cfg, notifier.Process)

	var worker *services.Worker
	if cfg.Redis.Enabled && taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notifier.Process)
			if err := worker.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start notification worker")
			}
		}
	}

	return &appServices{
		notifier:     notifier,
		taskQueue:    taskQueue,
		worker:       worker,
		cleanupCron:  cleanupCron,
		authHandler:  handlers.NewAuthHandler(db, cfg),
		projHandler:  handlers.NewProjectHandler(db, storage, notifier),
		archHandler:  handlers.NewArchivalHandler(db, notifier),
		notifHandler: handlers.NewNotificationHandler(notifier),
		userHandler:  handlers.NewUserHandler(db),
		logHandler:   handlers.NewSystemLogHandler(db),
	}
}

// shutdown gracefully stops the background machinery.
func (s *appServices) shutdown() {
	if s.cleanupCron != nil {
		s.cleanupCron.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("Background services stopped")
}
