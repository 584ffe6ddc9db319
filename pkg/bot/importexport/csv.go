package importexport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/smith3v/tg-pill-reminder/pkg/db"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var exportHeader = []string{"name", "total", "remaining", "per_dose", "slot"}

func BuildExportCSV(meds []db.Medicine) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.Write(utf8BOM); err != nil {
		return nil, err
	}

	writer := csv.NewWriter(&buf)
	writer.UseCRLF = true

	if err := writer.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, med := range meds {
		record := []string{
			med.Name,
			strconv.Itoa(med.TotalPills),
			strconv.Itoa(med.RemainingPills),
			strconv.Itoa(med.PillsPerDose),
			strconv.Itoa(med.TimeSlot),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("medicines-%s.csv", now.Format("20060102"))
}

func SortMedicinesForExport(meds []db.Medicine) {
	sort.Slice(meds, func(i, j int) bool {
		if meds[i].Name == meds[j].Name {
			return meds[i].ID < meds[j].ID
		}
		return meds[i].Name < meds[j].Name
	})
}
