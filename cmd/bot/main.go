package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/revision-tracker-bot/internal/config"
	httpapi "github.com/aliskhannn/revision-tracker-bot/internal/delivery/http"
	httpH "github.com/aliskhannn/revision-tracker-bot/internal/delivery/http/handlers"
	"github.com/aliskhannn/revision-tracker-bot/internal/delivery/telegram"
	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres"
	"github.com/aliskhannn/revision-tracker-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/revision-tracker-bot/internal/logger"
	"github.com/aliskhannn/revision-tracker-bot/internal/service"
	"github.com/aliskhannn/revision-tracker-bot/internal/storage"
	"github.com/aliskhannn/revision-tracker-bot/internal/storage/memory"
)

// backend is a repository set together with the transactor that can rebind it.
type backend interface {
	Repositories() service.Repositories
	service.Transactor
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, lg); err != nil {
		lg.Error("service stopped with error", zap.Error(err))
		_ = lg.Sync()
		log.Fatal(err)
	}
	_ = lg.Sync()
}

// run wires the application and blocks until SIGINT/SIGTERM or the first component failure.
func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize storage.
	var store backend
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return fmt.Errorf("database is not configured: %w", err)
		}
		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pool.Close()
		store = repository.NewStore(pool)
	default:
		lg.Warn("using in-memory storage, data is lost on restart")
		store = memory.New()
	}

	// Initialize services.
	repos := store.Repositories()
	opts := []service.Option{
		service.WithClock(time.Now),
		service.WithDefaultTimezone(cfg.DefaultTimezone),
	}

	topicService := service.NewTopicService(repos, store, opts...)
	revisionService := service.NewRevisionService(repos, store, opts...)
	resetService := service.NewResetService(repos, store, opts...)
	settingsService := service.NewSettingsService(repos, store, opts...)
	agendaService := service.NewAgendaService(repos, opts...)
	userService := service.NewUserService(repos, store, opts...)
	reminderService := service.NewReminderService(repos, store, cfg.Reminders.Cron, lg, opts...)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.HTTP.Enabled {
		server := httpapi.NewServer(cfg.HTTP.Address, cfg.HTTP.ShutdownTimeout, httpapi.RouterConfig{
			Logger:          lg,
			AllowedOrigins:  cfg.HTTP.AllowedOrigins,
			TopicHandler:    httpH.NewTopicHandler(topicService),
			RevisionHandler: httpH.NewRevisionHandler(revisionService, resetService),
			SettingsHandler: httpH.NewSettingsHandler(settingsService),
			AgendaHandler:   httpH.NewAgendaHandler(agendaService),
			HealthHandler:   httpH.NewHealthHandler(),
		})
		g.Go(func() error {
			return server.Run(ctx)
		})
	}

	if cfg.TelegramAPIToken != "" {
		bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
		if err != nil {
			stop()
			_ = g.Wait()
			return fmt.Errorf("create bot: %w", err)
		}
		bot.Debug = cfg.Telegram.Debug
		lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

		if _, err := bot.Request(tgbotapi.NewSetMyCommands(botCommands()...)); err != nil {
			lg.Warn("failed to set bot commands", zap.Error(err))
		}

		handler := telegram.NewHandler(bot, lg, telegram.Services{
			Users:     userService,
			Topics:    topicService,
			Revisions: revisionService,
			Reset:     resetService,
			Settings:  settingsService,
			Agenda:    agendaService,
			Reminders: reminderService,
		}, storage.NewListingStorage())

		reminderService.SetNotifier(telegram.NewNotifier(bot, lg, storage.NewDigestStorage(), time.Now))

		g.Go(func() error {
			defer bot.StopReceivingUpdates()
			return handler.Run(ctx)
		})

		if cfg.Reminders.Enabled {
			g.Go(func() error {
				return reminderService.Start(ctx)
			})
		}
	} else {
		lg.Info("TELEGRAM_API_TOKEN is empty, bot and digests are disabled")
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	lg.Info("shutdown complete")
	return nil
}

func botCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: "today", Description: "Revisions due today"},
		{Command: "topics", Description: "Topics and subtopics"},
		{Command: "addtopic", Description: "Create a topic"},
		{Command: "addsub", Description: "Add a subtopic to a topic"},
		{Command: "calendar", Description: "This month's plan"},
		{Command: "settings", Description: "Intervals, timezone, reminders"},
		{Command: "reset", Description: "Reset revision progress"},
		{Command: "help", Description: "Help"},
	}
}
