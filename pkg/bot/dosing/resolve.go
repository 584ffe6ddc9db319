package dosing

import (
	"fmt"
	"time"

	"github.com/smith3v/tg-pill-reminder/pkg/bot/pending"
	"github.com/smith3v/tg-pill-reminder/pkg/db"
)

// InferenceWindow bounds how far the current clock reading may be from a
// configured slot time for an unprompted reply to still count for it.
const InferenceWindow = 2 * time.Hour

// ResolveSlot decides which dosing slot a reply acknowledges. A live
// pending entry wins outright. Without one the slot is inferred from the
// local wall clock: the reply counts for whichever configured time is
// within the inference window. If both slots match, or neither, the reply
// stays unresolved and no dose is recorded.
func ResolveSlot(ack pending.PendingAck, armed bool, settings db.UserSettings, now time.Time) (int, bool) {
	if armed {
		return ack.Slot, true
	}

	match1 := withinWindow(settings.Time1, now)
	match2 := withinWindow(settings.Time2, now)
	if match1 == match2 {
		return 0, false
	}
	if match1 {
		return db.SlotOne, true
	}
	return db.SlotTwo, true
}

func withinWindow(hhmm string, now time.Time) bool {
	slotTime, err := atTimeOfDay(hhmm, now)
	if err != nil {
		return false
	}
	diff := now.Sub(slotTime)
	if diff < 0 {
		diff = -diff
	}
	return diff <= InferenceWindow
}

// atTimeOfDay anchors a configured HH:MM on the calendar day of the
// reference time, in the reference time's location.
func atTimeOfDay(hhmm string, ref time.Time) (time.Time, error) {
	parsed, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	year, month, day := ref.Date()
	return time.Date(year, month, day, parsed.Hour(), parsed.Minute(), 0, 0, ref.Location()), nil
}
