package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
	"gorm.io/gorm"
)

func HandleAdd(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleAdd")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 5 {
		sendText(ctx, b, update.Message.Chat.ID, "Please use the format: /add <name> <total pills> <pills per dose> <slot 1 or 2>")
		return
	}

	name := parts[1]
	total, err := strconv.Atoi(parts[2])
	if err != nil || total <= 0 {
		sendText(ctx, b, update.Message.Chat.ID, "Please provide a valid total pill count.")
		return
	}
	perDose, err := strconv.Atoi(parts[3])
	if err != nil || perDose <= 0 {
		sendText(ctx, b, update.Message.Chat.ID, "Please provide a valid pills-per-dose count.")
		return
	}
	slot, err := strconv.Atoi(parts[4])
	if err != nil || (slot != db.SlotOne && slot != db.SlotTwo) {
		sendText(ctx, b, update.Message.Chat.ID, "The slot must be 1 or 2.")
		return
	}

	userID := update.Message.From.ID
	if _, err := db.FindMedicineByName(userID, name); err == nil {
		sendText(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("You already have %s in your cabinet. Use /refill %s <amount> to add stock.", name, name))
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("failed to check for existing medicine", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to add the medicine. Please try again later.")
		return
	}

	med := db.Medicine{
		UserID:         userID,
		Name:           name,
		TotalPills:     total,
		RemainingPills: total,
		PillsPerDose:   perDose,
		TimeSlot:       slot,
	}
	if err := db.DB.Create(&med).Error; err != nil {
		logger.Error("failed to create medicine", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to add the medicine. Please try again later.")
		return
	}

	sendText(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("Added %s: %d pills, %d per dose, reminders in slot %d.", name, total, perDose, slot))
}

func HandleRefill(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleRefill")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 3 {
		sendText(ctx, b, update.Message.Chat.ID, "Please use the format: /refill <name> <amount>")
		return
	}

	amount, err := strconv.Atoi(parts[2])
	if err != nil || amount <= 0 {
		sendText(ctx, b, update.Message.Chat.ID, "Please provide a valid refill amount.")
		return
	}

	userID := update.Message.From.ID
	med, err := db.FindMedicineByName(userID, parts[1])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("I couldn't find %s in your cabinet.", parts[1]))
			return
		}
		logger.Error("failed to look up medicine for refill", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to refill the medicine. Please try again later.")
		return
	}

	// A refill may push stock above the original total; that is fine.
	// Replenishing also re-arms both low-supply alerts.
	med.RemainingPills += amount
	med.AlertLevel = db.AlertNone
	if err := db.DB.Save(&med).Error; err != nil {
		logger.Error("failed to save refilled medicine", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to refill the medicine. Please try again later.")
		return
	}

	sendText(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("Refilled %s with %d pill(s). You now have %d.", med.Name, amount, med.RemainingPills))
}

func HandleRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleRemove")
		return
	}

	parts := strings.Fields(update.Message.Text)
	if len(parts) != 2 {
		sendText(ctx, b, update.Message.Chat.ID, "Please use the format: /remove <name>")
		return
	}

	userID := update.Message.From.ID
	med, err := db.FindMedicineByName(userID, parts[1])
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("I couldn't find %s in your cabinet.", parts[1]))
			return
		}
		logger.Error("failed to look up medicine for removal", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to remove the medicine. Please try again later.")
		return
	}

	if err := db.DB.Delete(&med).Error; err != nil {
		logger.Error("failed to delete medicine", "user_id", userID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to remove the medicine. Please try again later.")
		return
	}

	sendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("Removed %s from your cabinet.", med.Name))
}
