package handlers

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/importexport"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
)

func HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil || update.Message.From == nil || update.Message.Chat.ID == 0 {
		logger.Error("invalid update in HandleExport")
		return
	}
	if update.Message.Chat.Type != models.ChatTypePrivate {
		sendText(ctx, b, update.Message.Chat.ID, "The /export command works only in private chat.")
		return
	}

	meds, err := db.MedicinesForUser(update.Message.From.ID)
	if err != nil {
		logger.Error("failed to fetch medicines for export", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to export your cabinet. Please try again later.")
		return
	}
	if len(meds) == 0 {
		sendText(ctx, b, update.Message.Chat.ID, "You have no medicines to export.")
		return
	}

	importexport.SortMedicinesForExport(meds)
	data, err := importexport.BuildExportCSV(meds)
	if err != nil {
		logger.Error("failed to build export CSV", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to export your cabinet. Please try again later.")
		return
	}

	filename := importexport.ExportFilename(time.Now())
	caption := fmt.Sprintf("Your medicine cabinet (%d medicines).", len(meds))
	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: update.Message.Chat.ID,
		Document: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(data),
		},
		Caption: caption,
	})
	if err != nil {
		logger.Error("failed to send export document", "user_id", update.Message.From.ID, "error", err)
		sendText(ctx, b, update.Message.Chat.ID, "Failed to export your cabinet. Please try again later.")
	}
}
