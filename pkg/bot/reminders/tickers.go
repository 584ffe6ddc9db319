package reminders

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/dosing"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/pending"
	"github.com/smith3v/tg-pill-reminder/pkg/config"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
	"github.com/smith3v/tg-pill-reminder/pkg/ui"
)

// StartPeriodicMessages drives reminder dispatch off a minute ticker.
// Matching is minute-granular against the configured location's wall
// clock; a tick and the user's HH:MM setting meet at most once per day.
func StartPeriodicMessages(ctx context.Context, b *bot.Bot, loc *time.Location) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			localNow := now.In(loc)
			processReminders(ctx, b, localNow)
			processDailySummaries(ctx, b, localNow)
		}
	}
}

func processReminders(ctx context.Context, b *bot.Bot, now time.Time) {
	var users []db.UserSettings
	if err := db.DB.Find(&users).Error; err != nil {
		logger.Error("failed to fetch users for reminders", "error", err)
		return
	}

	hhmm := now.Format("15:04")
	for _, user := range users {
		for _, slot := range []int{db.SlotOne, db.SlotTwo} {
			if user.SlotTime(slot) != hhmm {
				continue
			}
			sendSlotReminder(ctx, b, user, slot, now)
		}
	}
}

func sendSlotReminder(ctx context.Context, b *bot.Bot, user db.UserSettings, slot int, now time.Time) {
	meds, err := db.MedicinesForSlot(user.UserID, slot)
	if err != nil {
		logger.Error("failed to fetch medicines for reminder", "user_id", user.UserID, "error", err)
		return
	}

	due := make([]db.Medicine, 0, len(meds))
	for _, med := range meds {
		if med.RemainingPills > 0 {
			due = append(due, med)
		}
	}
	if len(due) == 0 {
		return
	}

	text, keyboard, err := ui.RenderReminder(slot, user.SlotTime(slot), due)
	if err != nil {
		logger.Error("failed to render reminder", "user_id", user.UserID, "slot", slot, "error", err)
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      user.UserID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send reminder message", "user_id", user.UserID, "slot", slot, "error", err)
		return
	}

	pending.DefaultTracker.Arm(user.UserID, user.UserID, slot, now)
}

func processDailySummaries(ctx context.Context, b *bot.Bot, now time.Time) {
	if now.Format("15:04") != config.AppConfig.Reminder.SummaryTime {
		return
	}

	var users []db.UserSettings
	if err := db.DB.Find(&users).Error; err != nil {
		logger.Error("failed to fetch users for daily summaries", "error", err)
		return
	}

	for _, user := range users {
		sendDailySummary(ctx, b, user, now)
	}
}

func sendDailySummary(ctx context.Context, b *bot.Bot, user db.UserSettings, now time.Time) {
	meds, err := db.MedicinesForUser(user.UserID)
	if err != nil {
		logger.Error("failed to fetch medicines for summary", "user_id", user.UserID, "error", err)
		return
	}
	if len(meds) == 0 {
		return
	}

	year, month, day := now.Date()
	dayStart := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	var events []db.DoseEvent
	if err := db.DB.Where("user_id = ? AND taken_at >= ?", user.UserID, dayStart.UTC()).
		Order("taken_at ASC").Find(&events).Error; err != nil {
		logger.Error("failed to fetch dose events for summary", "user_id", user.UserID, "error", err)
		return
	}

	var low []db.Medicine
	for _, med := range meds {
		if med.RemainingPills <= dosing.LowThreshold {
			low = append(low, med)
		}
	}

	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: user.UserID,
		Text:   ui.RenderDailySummary(events, low),
	}); err != nil {
		logger.Error("failed to send daily summary", "user_id", user.UserID, "error", err)
	}
}
