package pending

import (
	"context"
	"sync"
	"time"
)

// AckWindow is how long a dispatched reminder stays attributable to a
// user's next reply. It matches the "late" window quoted in the reminder
// text, so a reply days later is never silently counted as a dose.
const AckWindow = 30 * time.Minute

// PendingAck records that a reminder for one dosing slot went out and a
// reply is expected to acknowledge it.
type PendingAck struct {
	Slot    int
	ChatID  int64
	ArmedAt time.Time
}

// Tracker is the process-local map of users awaiting acknowledgment.
// Expiry is checked lazily on Peek and backed by a periodic sweep; there
// are no per-entry timers to leak. State is deliberately not durable: a
// restart only downgrades replies to clock-window slot inference.
type Tracker struct {
	mu      sync.Mutex
	pending map[int64]PendingAck
	now     func() time.Time
}

func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		pending: make(map[int64]PendingAck),
		now:     now,
	}
}

var DefaultTracker = NewTracker(nil)

func ResetDefaultTracker(now func() time.Time) {
	DefaultTracker = NewTracker(now)
}

// Arm records a dispatched reminder for the user, replacing any prior
// entry. The last reminder sent wins.
func (t *Tracker) Arm(userID, chatID int64, slot int, now time.Time) {
	if t == nil || userID == 0 {
		return
	}
	if now.IsZero() {
		now = t.now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[userID] = PendingAck{
		Slot:    slot,
		ChatID:  chatID,
		ArmedAt: now,
	}
}

// Peek returns the user's live entry, if any. A stale entry is deleted
// and reported absent.
func (t *Tracker) Peek(userID int64, now time.Time) (PendingAck, bool) {
	if t == nil || userID == 0 {
		return PendingAck{}, false
	}
	if now.IsZero() {
		now = t.now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.pending[userID]
	if !ok {
		return PendingAck{}, false
	}
	if now.Sub(entry.ArmedAt) > AckWindow {
		delete(t.pending, userID)
		return PendingAck{}, false
	}
	return entry, true
}

// Clear removes the entry unconditionally. Acknowledgment processing calls
// it even when no dose ends up recorded, so a second reply is never
// double-attributed to the same reminder.
func (t *Tracker) Clear(userID int64) {
	if t == nil || userID == 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, userID)
}

func (t *Tracker) SweepExpired(now time.Time) {
	if t == nil {
		return
	}
	if now.IsZero() {
		now = t.now()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for userID, entry := range t.pending {
		if now.Sub(entry.ArmedAt) > AckWindow {
			delete(t.pending, userID)
		}
	}
}

func (t *Tracker) StartSweeper(ctx context.Context) {
	if t == nil || ctx == nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.SweepExpired(t.now())
		}
	}
}
