// pkg/db/models.go
package db

import "time"

const (
	SlotOne = 1
	SlotTwo = 2
)

// Alert ledger levels stored on Medicine.AlertLevel. A level is recorded
// the first time stock crosses the matching threshold and is reset to
// AlertNone on refill, so each depletion cycle alerts at most once per level.
const (
	AlertNone     = 0
	AlertLow      = 1
	AlertCritical = 2
)

type Medicine struct {
	ID             uint   `gorm:"primaryKey"`
	UserID         int64  `gorm:"index;uniqueIndex:idx_user_medicine_name"` // To keep cabinets separate for each user
	Name           string `gorm:"not null;uniqueIndex:idx_user_medicine_name"`
	TotalPills     int    `gorm:"not null"`
	RemainingPills int    `gorm:"not null"`
	PillsPerDose   int    `gorm:"not null;default:1"`
	TimeSlot       int    `gorm:"not null;default:1"`
	AlertLevel     int    `gorm:"not null;default:0"`
	CreatedAt      time.Time
}

type UserSettings struct {
	ID     uint   `gorm:"primaryKey"`
	UserID int64  `gorm:"index"`
	Time1  string `gorm:"not null;default:'08:00'"` // Slot 1 reminder time, local HH:MM
	Time2  string `gorm:"not null;default:'20:00'"` // Slot 2 reminder time, local HH:MM
}

// DoseEvent is the adherence log: one row per recorded dose. Feeds the
// daily summary and is pruned by the retention sweeper.
type DoseEvent struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       int64     `gorm:"index:idx_user_taken"`
	MedicineID   uint      `gorm:"index"`
	MedicineName string    `gorm:"not null"`
	Pills        int       `gorm:"not null"`
	TimeSlot     int       `gorm:"not null"`
	TakenAt      time.Time `gorm:"index:idx_user_taken"`
}
