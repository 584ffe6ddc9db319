package reminders

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/smith3v/tg-pill-reminder/pkg/bot/pending"
	"github.com/smith3v/tg-pill-reminder/pkg/config"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
	"github.com/smith3v/tg-pill-reminder/pkg/internal/testutil"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}
	return resp, nil
}

func (m *mockClient) lastMessageText(t *testing.T) string {
	t.Helper()
	if len(m.requests) == 0 {
		t.Fatalf("expected at least one recorded request")
	}
	req := m.requests[len(m.requests)-1]

	mediaType, params, err := mime.ParseMediaType(req.contentType)
	if err != nil {
		t.Fatalf("failed to parse media type: %v", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() == "text" {
			data, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read text part: %v", err)
			}
			return string(data)
		}
	}
	t.Fatalf("text field not found in request")
	return ""
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

func setupReminderTest(t *testing.T) {
	t.Helper()
	testutil.SetupTestDB(t)
	pending.ResetDefaultTracker(nil)
	t.Cleanup(func() {
		pending.ResetDefaultTracker(nil)
	})
}

func createUser(t *testing.T, userID int64, time1, time2 string) {
	t.Helper()
	settings := db.UserSettings{UserID: userID, Time1: time1, Time2: time2}
	if err := db.DB.Create(&settings).Error; err != nil {
		t.Fatalf("failed to create settings: %v", err)
	}
}

func createMedicine(t *testing.T, med db.Medicine) {
	t.Helper()
	if err := db.DB.Create(&med).Error; err != nil {
		t.Fatalf("failed to create medicine: %v", err)
	}
}

func TestProcessRemindersDispatchesAtConfiguredMinute(t *testing.T) {
	setupReminderTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	createUser(t, 1, "08:00", "20:00")
	createMedicine(t, db.Medicine{UserID: 1, Name: "aspirin", TotalPills: 30, RemainingPills: 30, PillsPerDose: 2, TimeSlot: db.SlotOne})

	now := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	processReminders(context.Background(), b, now)

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Medication time (08:00)") {
		t.Fatalf("unexpected reminder text: %s", text)
	}
	if !strings.Contains(text, "aspirin") {
		t.Fatalf("expected due medicine in reminder: %s", text)
	}

	ack, ok := pending.DefaultTracker.Peek(1, now.Add(time.Minute))
	if !ok {
		t.Fatalf("expected tracker to be armed after dispatch")
	}
	if ack.Slot != db.SlotOne {
		t.Fatalf("expected slot 1 armed, got %d", ack.Slot)
	}
}

func TestProcessRemindersSkipsNonMatchingMinute(t *testing.T) {
	setupReminderTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	createUser(t, 1, "08:00", "20:00")
	createMedicine(t, db.Medicine{UserID: 1, Name: "aspirin", TotalPills: 30, RemainingPills: 30, PillsPerDose: 2, TimeSlot: db.SlotOne})

	processReminders(context.Background(), b, time.Date(2026, 3, 9, 8, 1, 0, 0, time.UTC))

	if len(client.requests) != 0 {
		t.Fatalf("expected no reminder outside the configured minute, got %d requests", len(client.requests))
	}
	if _, ok := pending.DefaultTracker.Peek(1, time.Now()); ok {
		t.Fatalf("expected tracker to stay empty")
	}
}

func TestProcessRemindersSkipsDepletedSlot(t *testing.T) {
	setupReminderTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	createUser(t, 1, "08:00", "20:00")
	createMedicine(t, db.Medicine{UserID: 1, Name: "aspirin", TotalPills: 30, RemainingPills: 0, PillsPerDose: 2, TimeSlot: db.SlotOne})

	processReminders(context.Background(), b, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))

	if len(client.requests) != 0 {
		t.Fatalf("expected no reminder for a fully depleted slot")
	}
}

func TestProcessRemindersArmingOverwritesPrevious(t *testing.T) {
	setupReminderTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	createUser(t, 1, "08:00", "08:10")
	createMedicine(t, db.Medicine{UserID: 1, Name: "aspirin", TotalPills: 30, RemainingPills: 30, PillsPerDose: 2, TimeSlot: db.SlotOne})
	createMedicine(t, db.Medicine{UserID: 1, Name: "melatonin", TotalPills: 30, RemainingPills: 30, PillsPerDose: 1, TimeSlot: db.SlotTwo})

	processReminders(context.Background(), b, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC))
	processReminders(context.Background(), b, time.Date(2026, 3, 9, 8, 10, 0, 0, time.UTC))

	ack, ok := pending.DefaultTracker.Peek(1, time.Date(2026, 3, 9, 8, 11, 0, 0, time.UTC))
	if !ok {
		t.Fatalf("expected tracker to be armed")
	}
	if ack.Slot != db.SlotTwo {
		t.Fatalf("expected the later reminder to win, got slot %d", ack.Slot)
	}
}

func TestProcessDailySummaries(t *testing.T) {
	setupReminderTest(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	original := config.AppConfig.Reminder.SummaryTime
	config.AppConfig.Reminder.SummaryTime = "21:00"
	t.Cleanup(func() {
		config.AppConfig.Reminder.SummaryTime = original
	})

	createUser(t, 1, "08:00", "20:00")
	createMedicine(t, db.Medicine{UserID: 1, Name: "aspirin", TotalPills: 30, RemainingPills: 6, PillsPerDose: 2, TimeSlot: db.SlotOne})

	now := time.Date(2026, 3, 9, 21, 0, 0, 0, time.UTC)
	event := db.DoseEvent{UserID: 1, MedicineID: 1, MedicineName: "aspirin", Pills: 2, TimeSlot: db.SlotOne, TakenAt: now.Add(-13 * time.Hour).UTC()}
	if err := db.DB.Create(&event).Error; err != nil {
		t.Fatalf("failed to create dose event: %v", err)
	}

	processDailySummaries(context.Background(), b, now)

	text := client.lastMessageText(t)
	if !strings.Contains(text, "Daily summary") {
		t.Fatalf("expected summary message, got: %s", text)
	}
	if !strings.Contains(text, "Doses recorded today: 1") {
		t.Fatalf("expected dose count, got: %s", text)
	}
	if !strings.Contains(text, "aspirin: 6 pill(s) left") {
		t.Fatalf("expected low-stock entry, got: %s", text)
	}

	// Off the configured minute, nothing is sent.
	before := len(client.requests)
	processDailySummaries(context.Background(), b, now.Add(time.Minute))
	if len(client.requests) != before {
		t.Fatalf("expected no summary off the configured minute")
	}
}
