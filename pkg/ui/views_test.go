package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/smith3v/tg-pill-reminder/pkg/bot/dosing"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
)

func TestRenderReminder(t *testing.T) {
	meds := []db.Medicine{
		{Name: "aspirin", PillsPerDose: 2, RemainingPills: 28},
		{Name: "vitamin", PillsPerDose: 1, RemainingPills: 12},
	}

	text, keyboard, err := RenderReminder(1, "08:00", meds)
	if err != nil {
		t.Fatalf("RenderReminder returned error: %v", err)
	}
	if !strings.Contains(text, "08:00") {
		t.Fatalf("expected slot time in reminder, got: %s", text)
	}
	if !strings.Contains(text, "aspirin") || !strings.Contains(text, "vitamin") {
		t.Fatalf("expected both medicines in reminder, got: %s", text)
	}
	if !strings.Contains(text, "30 minutes") {
		t.Fatalf("expected the late-window note, got: %s", text)
	}
	if keyboard == nil || len(keyboard.InlineKeyboard) != 1 || len(keyboard.InlineKeyboard[0]) != 1 {
		t.Fatalf("expected a single Taken button")
	}
	if keyboard.InlineKeyboard[0][0].CallbackData != "m:ack:1" {
		t.Fatalf("unexpected callback data: %s", keyboard.InlineKeyboard[0][0].CallbackData)
	}
}

func TestRenderDoseResults(t *testing.T) {
	records := []dosing.Record{
		{Medicine: db.Medicine{Name: "aspirin", RemainingPills: 28}, Taken: 2},
	}
	alerts := []dosing.Alert{
		{MedicineName: "vitamin", Level: db.AlertLow, Remaining: 10},
	}
	failed := []string{"zinc"}

	text := RenderDoseResults(records, alerts, failed)
	if !strings.Contains(text, "aspirin: took 2, 28 left") {
		t.Fatalf("expected dose line, got: %s", text)
	}
	if !strings.Contains(text, "vitamin is running low") {
		t.Fatalf("expected low alert, got: %s", text)
	}
	if !strings.Contains(text, "zinc is depleted") {
		t.Fatalf("expected depletion note, got: %s", text)
	}
}

func TestRenderAlertLevels(t *testing.T) {
	low := RenderAlert(dosing.Alert{MedicineName: "aspirin", Level: db.AlertLow, Remaining: 8})
	if !strings.Contains(low, "running low") {
		t.Fatalf("unexpected low alert text: %s", low)
	}
	critical := RenderAlert(dosing.Alert{MedicineName: "aspirin", Level: db.AlertCritical, Remaining: 4})
	if !strings.Contains(critical, "almost out") {
		t.Fatalf("unexpected critical alert text: %s", critical)
	}
}

func TestRenderStatusEmptyCabinet(t *testing.T) {
	settings := db.UserSettings{Time1: "08:00", Time2: "20:00"}

	text := RenderStatus(settings, nil)
	if !strings.Contains(text, "slot 1 at 08:00") || !strings.Contains(text, "slot 2 at 20:00") {
		t.Fatalf("expected both slot times, got: %s", text)
	}
	if !strings.Contains(text, "cabinet is empty") {
		t.Fatalf("expected empty-cabinet hint, got: %s", text)
	}
}

func TestRenderDailySummary(t *testing.T) {
	taken := time.Date(2026, 3, 9, 8, 5, 0, 0, time.UTC)
	events := []db.DoseEvent{
		{MedicineName: "aspirin", Pills: 2, TakenAt: taken},
	}
	low := []db.Medicine{
		{Name: "vitamin", RemainingPills: 6},
	}

	text := RenderDailySummary(events, low)
	if !strings.Contains(text, "Doses recorded today: 1") {
		t.Fatalf("expected dose count, got: %s", text)
	}
	if !strings.Contains(text, "aspirin: 2 pill(s) at 08:05") {
		t.Fatalf("expected dose detail, got: %s", text)
	}
	if !strings.Contains(text, "vitamin: 6 pill(s) left") {
		t.Fatalf("expected low-stock entry, got: %s", text)
	}

	empty := RenderDailySummary(nil, nil)
	if !strings.Contains(empty, "No doses recorded today") {
		t.Fatalf("expected empty summary text, got: %s", empty)
	}
}
