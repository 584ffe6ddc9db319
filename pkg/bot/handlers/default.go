package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
	"github.com/smith3v/tg-pill-reminder/pkg/ui"
)

// DefaultHandler treats any non-command reply, including stickers, as an
// acknowledgment attempt: a reply to a recent reminder means "taken". A
// reply that cannot be attributed to any slot gets a clarification prompt
// instead of a silently recorded dose.
func DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		logger.Error("received invalid update in DefaultHandler")
		return
	}
	if update.Message.Chat.ID == 0 {
		logger.Error("chat ID is zero in DefaultHandler")
		return
	}
	if update.Message.From == nil {
		logger.Error("sender is missing in DefaultHandler")
		return
	}

	isSticker := update.Message.Sticker != nil
	isText := update.Message.Text != "" && !strings.HasPrefix(update.Message.Text, "/")
	if !isSticker && !isText {
		sendText(ctx, b, update.Message.Chat.ID, ui.RenderHelp())
		return
	}

	if ProcessAcknowledgment(ctx, b, update.Message.From.ID, update.Message.Chat.ID, time.Now()) {
		return
	}

	sendText(ctx, b, update.Message.Chat.ID,
		"I couldn't match your reply to a reminder. Use /take <name> to record a single dose, or /status to see your cabinet.\n\n"+ui.RenderHelp())
}
