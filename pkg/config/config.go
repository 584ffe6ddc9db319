package config

import (
	"encoding/json"
	"os"

	"github.com/smith3v/tg-pill-reminder/pkg/logger"
)

type Config struct {
	Database DatabaseConfig `json:"database"`
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`
	Reminder ReminderConfig `json:"reminder"`
}

type DatabaseConfig struct {
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
	Port     int    `json:"port"`
	SSLMode  string `json:"sslmode"`
}

type TelegramConfig struct {
	Token string `json:"token"`
}

type LoggingConfig struct {
	Level     string `json:"level"`
	File      string `json:"file"`
	GormLevel string `json:"gorm_level"`
}

// ReminderConfig holds the wall-clock settings for reminder dispatch.
// Timezone is an IANA location name. Reminders are calendar-local events,
// so the scheduler never compares configured times against UTC.
type ReminderConfig struct {
	Timezone    string `json:"timezone"`
	SummaryTime string `json:"summary_time"`
}

const DefaultSummaryTime = "21:00"

var AppConfig Config

func LoadConfig(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		logger.Error("failed to open config file", "error", err)
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&AppConfig); err != nil {
		logger.Error("failed to decode config file", "error", err)
		return err
	}

	if AppConfig.Reminder.SummaryTime == "" {
		AppConfig.Reminder.SummaryTime = DefaultSummaryTime
	}

	return nil
}
