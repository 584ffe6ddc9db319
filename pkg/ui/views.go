package ui

import (
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/dosing"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
)

// RenderReminder builds the reminder message for one dosing slot with its
// "Taken" button. The late-window note matches the tracker's 30-minute
// acknowledgment window.
func RenderReminder(slot int, slotTime string, meds []db.Medicine) (string, *models.InlineKeyboardMarkup, error) {
	ackData, err := BuildAckCallback(slot)
	if err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "💊 Medication time (%s):\n", slotTime)
	for _, med := range meds {
		fmt.Fprintf(&sb, "- %s: %d pill(s), %d left\n", med.Name, med.PillsPerDose, med.RemainingPills)
	}
	sb.WriteString("\nTap the button or reply with anything within 30 minutes to record your dose.")

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Taken ✅", CallbackData: ackData},
			},
		},
	}
	return sb.String(), keyboard, nil
}

// RenderDoseResults formats the outcome of a slot-wide acknowledgment.
func RenderDoseResults(records []dosing.Record, alerts []dosing.Alert, failed []string) string {
	var sb strings.Builder
	if len(records) > 0 {
		sb.WriteString("Recorded your dose:\n")
		for _, rec := range records {
			fmt.Fprintf(&sb, "- %s: took %d, %d left\n", rec.Medicine.Name, rec.Taken, rec.Medicine.RemainingPills)
		}
	}
	for _, name := range failed {
		fmt.Fprintf(&sb, "⚠️ %s is depleted: not enough pills for a full dose.\n", name)
	}
	for _, alert := range alerts {
		sb.WriteString(RenderAlert(alert))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func RenderAlert(alert dosing.Alert) string {
	if alert.Level == db.AlertCritical {
		return fmt.Sprintf("🚨 %s is almost out: %d pill(s) left. Refill now.", alert.MedicineName, alert.Remaining)
	}
	return fmt.Sprintf("⚠️ %s is running low: %d pill(s) left. Consider a refill.", alert.MedicineName, alert.Remaining)
}

// RenderStatus lists the cabinet and both slot times.
func RenderStatus(settings db.UserSettings, meds []db.Medicine) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reminder times: slot 1 at %s, slot 2 at %s\n", settings.Time1, settings.Time2)
	if len(meds) == 0 {
		sb.WriteString("\nYour cabinet is empty. Add a medicine with /add.")
		return sb.String()
	}
	sb.WriteString("\nYour medicines:\n")
	for _, med := range meds {
		fmt.Fprintf(&sb, "- %s: %d/%d pills, %d per dose, slot %d\n",
			med.Name, med.RemainingPills, med.TotalPills, med.PillsPerDose, med.TimeSlot)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// RenderDailySummary reports today's recorded doses and any low stock.
func RenderDailySummary(events []db.DoseEvent, low []db.Medicine) string {
	var sb strings.Builder
	sb.WriteString("📋 Daily summary\n")
	if len(events) == 0 {
		sb.WriteString("No doses recorded today.\n")
	} else {
		fmt.Fprintf(&sb, "Doses recorded today: %d\n", len(events))
		for _, ev := range events {
			fmt.Fprintf(&sb, "- %s: %d pill(s) at %s\n", ev.MedicineName, ev.Pills, ev.TakenAt.Format("15:04"))
		}
	}
	if len(low) > 0 {
		sb.WriteString("\nRunning low:\n")
		for _, med := range low {
			fmt.Fprintf(&sb, "- %s: %d pill(s) left\n", med.Name, med.RemainingPills)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func RenderHelp() string {
	return "Commands:\n" +
		"* /start: initialize your account.\n" +
		"* /add <name> <total> <per dose> <slot>: add a medicine.\n" +
		"* /refill <name> <amount>: add pills to a medicine.\n" +
		"* /remove <name>: delete a medicine.\n" +
		"* /take <name>: record a single dose.\n" +
		"* /taken: record doses for the current reminder.\n" +
		"* /settime <1|2> <HH:MM>: change a reminder time.\n" +
		"* /status: show your cabinet and reminder times.\n" +
		"* /export: download your cabinet as CSV.\n\n" +
		"After a reminder, any reply (or a sticker) counts as \"taken\"."
}
