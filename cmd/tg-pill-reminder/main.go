// cmd/tg-pill-reminder/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/handlers"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/pending"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/reminders"
	"github.com/smith3v/tg-pill-reminder/pkg/config"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
)

func main() {
	if err := config.LoadConfig("config.json"); err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := logger.Configure(logger.Options{
		Level: config.AppConfig.Logging.Level,
		File:  config.AppConfig.Logging.File,
	}); err != nil {
		logger.Error("failed to configure logger", "error", err)
	}

	loc := time.Local
	if config.AppConfig.Reminder.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(config.AppConfig.Reminder.Timezone)
		if err != nil {
			logger.Error("failed to load reminder timezone", "timezone", config.AppConfig.Reminder.Timezone, "error", err)
			os.Exit(1)
		}
	}
	handlers.Location = loc

	if err := db.InitDB(config.AppConfig.Database); err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	opts := []bot.Option{
		bot.WithDefaultHandler(handlers.DefaultHandler),
	}
	b, err := bot.New(config.AppConfig.Telegram.Token, opts...)
	if err != nil {
		logger.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, handlers.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/add", bot.MatchTypePrefix, handlers.HandleAdd)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/refill", bot.MatchTypePrefix, handlers.HandleRefill)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/remove", bot.MatchTypePrefix, handlers.HandleRemove)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/take ", bot.MatchTypePrefix, handlers.HandleTake)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/taken", bot.MatchTypeExact, handlers.HandleTaken)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/settime", bot.MatchTypePrefix, handlers.HandleSetTime)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/status", bot.MatchTypeExact, handlers.HandleStatus)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypeExact, handlers.HandleExport)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, "m:ack:", bot.MatchTypePrefix, handlers.HandleAckCallback)

	go reminders.StartPeriodicMessages(ctx, b, loc)
	go pending.DefaultTracker.StartSweeper(ctx)
	go db.StartDoseCleanup(ctx, db.DoseCleanupInterval)

	logger.Info("Starting bot...")
	b.Start(ctx)
}
