// pkg/db/repository.go
package db

import (
	"errors"
	"strconv"
	"strings"

	"github.com/smith3v/tg-pill-reminder/pkg/config"
	"github.com/smith3v/tg-pill-reminder/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Export DB variable
var DB *gorm.DB

const (
	DefaultTime1 = "08:00"
	DefaultTime2 = "20:00"
)

func InitDB(cfg config.DatabaseConfig) error {
	var err error
	dsn := "host=" + cfg.Host +
		" user=" + cfg.User +
		" password=" + cfg.Password +
		" dbname=" + cfg.DBName +
		" port=" + strconv.Itoa(cfg.Port) +
		" sslmode=" + cfg.SSLMode
	gormLogger, gormErr := newGormLogger(config.AppConfig.Logging.GormLevel)
	if gormErr != nil {
		logger.Error("invalid gorm log level", "value", config.AppConfig.Logging.GormLevel, "error", gormErr)
	}
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return err
	}
	if err := DB.AutoMigrate(&Medicine{}, &UserSettings{}, &DoseEvent{}); err != nil {
		logger.Error("failed to auto-migrate database", "error", err)
		return err
	}
	return nil
}

// GetOrCreateSettings returns the user's reminder settings, creating the
// default profile (08:00 / 20:00) on first access.
func GetOrCreateSettings(userID int64) (UserSettings, error) {
	var settings UserSettings
	err := DB.Where("user_id = ?", userID).First(&settings).Error
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, err
	}
	settings = UserSettings{UserID: userID, Time1: DefaultTime1, Time2: DefaultTime2}
	if err := DB.Create(&settings).Error; err != nil {
		return settings, err
	}
	return settings, nil
}

// SlotTime returns the configured HH:MM for a slot, or "" for an unknown slot.
func (s UserSettings) SlotTime(slot int) string {
	switch slot {
	case SlotOne:
		return s.Time1
	case SlotTwo:
		return s.Time2
	default:
		return ""
	}
}

// FindMedicineByName does a case-insensitive lookup within one user's cabinet.
func FindMedicineByName(userID int64, name string) (Medicine, error) {
	var med Medicine
	err := DB.Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name)).First(&med).Error
	return med, err
}

// MedicinesForUser returns the user's cabinet in stored order.
func MedicinesForUser(userID int64) ([]Medicine, error) {
	var meds []Medicine
	err := DB.Where("user_id = ?", userID).Order("id ASC").Find(&meds).Error
	return meds, err
}

// MedicinesForSlot returns the user's medicines assigned to one dosing slot,
// in stored order.
func MedicinesForSlot(userID int64, slot int) ([]Medicine, error) {
	var meds []Medicine
	err := DB.Where("user_id = ? AND time_slot = ?", userID, slot).Order("id ASC").Find(&meds).Error
	return meds, err
}
