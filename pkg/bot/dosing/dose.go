// Package dosing holds the stock arithmetic for recording doses and the
// low-supply alert ledger. Functions here are pure over Medicine values;
// callers persist the returned rows.
package dosing

import (
	"errors"

	"github.com/smith3v/tg-pill-reminder/pkg/db"
)

const (
	LowThreshold      = 10
	CriticalThreshold = 5
)

var ErrInsufficientStock = errors.New("insufficient stock for a full dose")

// Alert is a threshold crossing produced by a dose. Each level fires at
// most once per depletion cycle; refilling resets the ledger.
type Alert struct {
	MedicineName string
	Level        int
	Remaining    int
}

// Record is the outcome of one recorded dose.
type Record struct {
	Medicine db.Medicine
	Taken    int
}

// ApplyDose decrements stock by one dose and computes any threshold alert.
// On error the returned medicine is the input, unmodified. Stock never goes
// negative: a medicine with fewer pills than a full dose rejects the dose.
func ApplyDose(med db.Medicine) (db.Medicine, *Alert, error) {
	if med.RemainingPills < med.PillsPerDose {
		return med, nil, ErrInsufficientStock
	}
	med.RemainingPills -= med.PillsPerDose

	var alert *Alert
	switch {
	case med.RemainingPills <= CriticalThreshold && med.AlertLevel < db.AlertCritical:
		med.AlertLevel = db.AlertCritical
		alert = &Alert{MedicineName: med.Name, Level: db.AlertCritical, Remaining: med.RemainingPills}
	case med.RemainingPills <= LowThreshold && med.AlertLevel == db.AlertNone:
		med.AlertLevel = db.AlertLow
		alert = &Alert{MedicineName: med.Name, Level: db.AlertLow, Remaining: med.RemainingPills}
	}
	return med, alert, nil
}

// TakeAllForSlot records a dose for every medicine assigned to the slot,
// in stored order. Fully depleted medicines are skipped silently; reporting
// them as failures on every acknowledgment would be noise. Medicines with
// some stock but not enough for a full dose are reported as failed records.
func TakeAllForSlot(meds []db.Medicine, slot int) ([]Record, []Alert, []string) {
	var records []Record
	var alerts []Alert
	var failed []string
	for _, med := range meds {
		if med.TimeSlot != slot {
			continue
		}
		if med.RemainingPills == 0 {
			continue
		}
		updated, alert, err := ApplyDose(med)
		if err != nil {
			failed = append(failed, med.Name)
			continue
		}
		records = append(records, Record{Medicine: updated, Taken: updated.PillsPerDose})
		if alert != nil {
			alerts = append(alerts, *alert)
		}
	}
	return records, alerts, failed
}
