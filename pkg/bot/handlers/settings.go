package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
	"github.com/smith3v/tg-pill-reminder/pkg/ui"
)

func HandleSetTime(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleSetTime")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 3 {
		sendText(ctx, b, update.Message.Chat.ID, "Please use the format: /settime <1|2> <HH:MM>")
		return
	}

	slot := 0
	switch parts[1] {
	case "1":
		slot = db.SlotOne
	case "2":
		slot = db.SlotTwo
	default:
		sendText(ctx, b, update.Message.Chat.ID, "The slot must be 1 or 2.")
		return
	}

	parsed, err := time.Parse("15:04", parts[2])
	if err != nil {
		sendText(ctx, b, update.Message.Chat.ID, "Please provide the time as HH:MM, for example 08:30.")
		return
	}
	hhmm := parsed.Format("15:04")

	userID := update.Message.From.ID
	settings, err := db.GetOrCreateSettings(userID)
	if err != nil {
		logger.Error("failed to load settings", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to update your reminder time. Please try again later.")
		return
	}

	if slot == db.SlotOne {
		settings.Time1 = hhmm
	} else {
		settings.Time2 = hhmm
	}
	if err := db.DB.Save(&settings).Error; err != nil {
		logger.Error("failed to save settings", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to update your reminder time. Please try again later.")
		return
	}

	sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Reminder time for slot %d set to %s.", slot, hhmm))
}

func HandleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStatus")
		return
	}

	userID := update.Message.From.ID
	settings, err := db.GetOrCreateSettings(userID)
	if err != nil {
		logger.Error("failed to load settings for status", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your status. Please try again later.")
		return
	}

	meds, err := db.MedicinesForUser(userID)
	if err != nil {
		logger.Error("failed to load medicines for status", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to load your status. Please try again later.")
		return
	}

	sendText(ctx, b, update.Message.Chat.ID, ui.RenderStatus(settings, meds))
}
