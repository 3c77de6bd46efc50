package reminder

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var ErrAlreadyFired = errors.New("reminder event already fired")

// Kind identifies which trigger of a bill's reminder pair an event is.
type Kind string

const (
	KindDayBefore Kind = "day_before"
	KindDueToday  Kind = "due_today"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusFired     Status = "fired"
	StatusCancelled Status = "cancelled"
)

// ReminderEvent is a persisted, individually deliverable reminder trigger.
// Events survive restarts: a polling dispatcher picks up whatever is due.
type ReminderEvent struct {
	ID        string          `json:"id"`
	BillID    string          `json:"billId"`
	UserID    int64           `json:"-"`
	BillName  string          `json:"billName"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      Kind            `json:"kind"`
	FiresAt   time.Time       `json:"firesAt"`
	Status    Status          `json:"status"`
	FiredAt   *time.Time      `json:"firedAt,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Tag returns the collapse tag for the event, so repeat deliveries for
// the same bill replace each other on the client.
func (e *ReminderEvent) Tag() string {
	if e.Kind == KindDueToday {
		return "bill-due-" + e.BillName
	}
	return "bill-reminder-" + e.BillName
}

// Trigger is a reminder firing time computed from a bill's due date.
type Trigger struct {
	Kind    Kind
	FiresAt time.Time
}

// Plan computes the triggers for a bill: one a full day before the due
// date and one at the due date itself. Triggers whose time has already
// passed are dropped rather than fired late, so an overdue bill yields
// no triggers at all.
func Plan(dueDate, now time.Time) []Trigger {
	candidates := []Trigger{
		{Kind: KindDayBefore, FiresAt: dueDate.Add(-24 * time.Hour)},
		{Kind: KindDueToday, FiresAt: dueDate},
	}

	triggers := make([]Trigger, 0, len(candidates))
	for _, c := range candidates {
		if c.FiresAt.After(now) {
			triggers = append(triggers, c)
		}
	}
	return triggers
}
