package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/dosing"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
	"github.com/smith3v/tg-pill-reminder/pkg/ui"
	"gorm.io/gorm"
)

// HandleTake records a single dose for one medicine by name, outside the
// reminder flow.
func HandleTake(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleTake")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 2 {
		sendText(ctx, b, update.Message.Chat.ID, "Please use the format: /take <name>")
		return
	}

	userID := update.Message.From.ID
	med, err := db.FindMedicineByName(userID, parts[1])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("I couldn't find %s in your cabinet.", parts[1]))
			return
		}
		logger.Error("failed to look up medicine for dose", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to record your dose. Please try again later.")
		return
	}

	updated, alert, err := dosing.ApplyDose(med)
	if err != nil {
		if errors.Is(err, dosing.ErrInsufficientStock) {
			sendText(ctx, b, update.Message.Chat.ID,
				fmt.Sprintf("%s is depleted: %d pill(s) left, %d needed per dose. Use /refill.", med.Name, med.RemainingPills, med.PillsPerDose))
			return
		}
		logger.Error("failed to apply dose", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to record your dose. Please try again later.")
		return
	}

	records := []dosing.Record{{Medicine: updated, Taken: updated.PillsPerDose}}
	if err := persistRecords(userID, updated.TimeSlot, records, time.Now()); err != nil {
		logger.Error("failed to persist dose", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to record your dose. Please try again later.")
		return
	}

	var alerts []dosing.Alert
	if alert != nil {
		alerts = append(alerts, *alert)
	}
	sendText(ctx, b, update.Message.Chat.ID, ui.RenderDoseResults(records, alerts, nil))
}

// HandleTaken is the explicit slot-wide acknowledgment command.
func HandleTaken(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleTaken")
		return
	}

	if !ProcessAcknowledgment(ctx, b, update.Message.From.ID, update.Message.Chat.ID, time.Now()) {
		sendText(ctx, b, update.Message.Chat.ID,
			"I couldn't match this to a reminder. Use /take <name> to record a single dose.")
	}
}

// HandleAckCallback handles the "Taken" button under a reminder. The slot
// travels in the callback data, so the tap works even after the pending
// entry has expired.
func HandleAckCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleAckCallback")
		return
	}

	userID := update.CallbackQuery.From.ID
	answerCallback := func(text string) {
		if update.CallbackQuery.ID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
			Text:            text,
		}); err != nil {
			logger.Error("failed to answer callback query", "user_id", userID, "error", err)
		}
	}

	slot, err := ui.ParseAckCallback(update.CallbackQuery.Data)
	if err != nil {
		logger.Error("failed to parse ack callback", "data", update.CallbackQuery.Data, "error", err)
		answerCallback("Unknown command")
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		logger.Error("callback query message is inaccessible", "user_id", userID)
		answerCallback("Message is not available")
		return
	}

	answerCallback("")
	recordSlotDoses(ctx, b, userID, message.Message.Chat.ID, slot, time.Now())
}
