package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
)

func HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleStart")
		return
	}

	settings, err := db.GetOrCreateSettings(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to initialize user settings", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to initialize your account. Please try again later.")
		return
	}

	text := fmt.Sprintf(
		"Welcome! I remind you to take your medicines twice a day (%s and %s) and keep track of your stock.\n\n"+
			"Add your first medicine with:\n/add <name> <total pills> <pills per dose> <slot 1 or 2>\n\n"+
			"Change reminder times with /settime, see everything with /status.",
		settings.Time1, settings.Time2,
	)
	sendText(ctx, b, update.Message.Chat.ID, text)
}
