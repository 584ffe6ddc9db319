package handlers

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/dosing"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/pending"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
	"github.com/smith3v/tg-pill-reminder/pkg/ui"
	"gorm.io/gorm"
)

// Location is the deployment's wall-clock time zone, set once at startup.
// Slot inference for unprompted replies depends on it.
var Location = time.Local

// ProcessAcknowledgment attributes a reply to a dosing slot and records a
// dose for every medicine in that slot. The pending entry, when live,
// decides the slot; otherwise the slot is inferred from the local clock.
// The tracker entry is cleared even when nothing gets recorded, so a second
// reply is never attributed to the same reminder. Returns false when the
// reply could not be attributed at all.
func ProcessAcknowledgment(ctx context.Context, b *bot.Bot, userID, chatID int64, now time.Time) bool {
	settings, err := db.GetOrCreateSettings(userID)
	if err != nil {
		logger.Error("failed to load settings for acknowledgment", "user_id", userID, "error", err)
		sendText(ctx, b, chatID, "Failed to record your dose. Please try again later.")
		return true
	}

	localNow := now.In(Location)
	ack, armed := pending.DefaultTracker.Peek(userID, now)
	slot, ok := dosing.ResolveSlot(ack, armed, settings, localNow)
	if !ok {
		return false
	}

	recordSlotDoses(ctx, b, userID, chatID, slot, now)
	return true
}

// recordSlotDoses is the slot-wide recording path shared by the reminder
// button, /taken, and unprompted replies.
func recordSlotDoses(ctx context.Context, b *bot.Bot, userID, chatID int64, slot int, now time.Time) {
	defer pending.DefaultTracker.Clear(userID)

	meds, err := db.MedicinesForSlot(userID, slot)
	if err != nil {
		logger.Error("failed to fetch medicines for acknowledgment", "user_id", userID, "slot", slot, "error", err)
		sendText(ctx, b, chatID, "Failed to record your dose. Please try again later.")
		return
	}

	records, alerts, failed := dosing.TakeAllForSlot(meds, slot)
	if len(records) == 0 && len(failed) == 0 {
		sendText(ctx, b, chatID, "No medicines are due for this reminder.")
		return
	}

	if err := persistRecords(userID, slot, records, now); err != nil {
		logger.Error("failed to persist dose records", "user_id", userID, "slot", slot, "error", err)
		sendText(ctx, b, chatID, "Failed to record your dose. Please try again later.")
		return
	}

	sendText(ctx, b, chatID, ui.RenderDoseResults(records, alerts, failed))
}

// persistRecords writes the decremented rows and the adherence log in one
// transaction, so a store failure leaves no partial mutation behind.
func persistRecords(userID int64, slot int, records []dosing.Record, now time.Time) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			med := rec.Medicine
			if err := tx.Save(&med).Error; err != nil {
				return err
			}
			event := db.DoseEvent{
				UserID:       userID,
				MedicineID:   med.ID,
				MedicineName: med.Name,
				Pills:        rec.Taken,
				TimeSlot:     slot,
				TakenAt:      now.UTC(),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}
