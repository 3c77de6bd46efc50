package reminder

import (
	"sync"
	"time"
)

// TimerSet arms one in-process timer per reminder event so deliveries
// happen promptly between dispatcher polls. The persisted events remain
// the source of truth: a timer that never fires (crash, restart) is
// picked up by the next poll.
type TimerSet struct {
	mu      sync.Mutex
	timers  map[string]*time.Timer
	byBill  map[string][]string
	stopped bool
}

func NewTimerSet() *TimerSet {
	return &TimerSet{
		timers: make(map[string]*time.Timer),
		byBill: make(map[string][]string),
	}
}

// Arm schedules fire to run after delay. The timer deregisters itself
// before firing, so each armed event fires at most once.
func (ts *TimerSet) Arm(eventID, billID string, delay time.Duration, fire func()) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.stopped {
		return
	}
	if t, ok := ts.timers[eventID]; ok {
		t.Stop()
	}

	ts.timers[eventID] = time.AfterFunc(delay, func() {
		ts.remove(eventID, billID)
		fire()
	})
	ts.byBill[billID] = append(ts.byBill[billID], eventID)
}

// CancelBill stops every pending timer for a bill.
func (ts *TimerSet) CancelBill(billID string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, eventID := range ts.byBill[billID] {
		if t, ok := ts.timers[eventID]; ok {
			t.Stop()
			delete(ts.timers, eventID)
		}
	}
	delete(ts.byBill, billID)
}

// Stop cancels all pending timers. Used on shutdown.
func (ts *TimerSet) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.stopped = true
	for id, t := range ts.timers {
		t.Stop()
		delete(ts.timers, id)
	}
	ts.byBill = make(map[string][]string)
}

// Pending returns the number of armed timers.
func (ts *TimerSet) Pending() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.timers)
}

// remove forgets a fired timer, including its bill-index entry, so
// long-lived bills don't accumulate dead event IDs.
func (ts *TimerSet) remove(eventID, billID string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	delete(ts.timers, eventID)

	ids := ts.byBill[billID]
	for i, id := range ids {
		if id == eventID {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(ts.byBill, billID)
	} else {
		ts.byBill[billID] = ids
	}
}
