package bill

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrBillNotFound  = errors.New("bill not found")
	ErrForbidden     = errors.New("access denied")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrAlreadyPaid   = errors.New("bill is already paid")
)

// urgencyWindowDays is the horizon inside which a bill counts as urgent.
const urgencyWindowDays = 3

type Bill struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"-"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"dueDate"`
	Category  string          `json:"category,omitempty"`
	IsPaid    bool            `json:"isPaid"`
	CreatedAt time.Time       `json:"createdAt"`
}

// DaysUntilDue returns the number of days from now until the bill's due
// date, rounding partial days up. Overdue bills yield negative values.
func (b *Bill) DaysUntilDue(now time.Time) int {
	return DaysUntilDue(b.DueDate, now)
}

// IsUrgent reports whether the bill is due within the urgency window.
// Overdue bills are always urgent.
func (b *Bill) IsUrgent(now time.Time) bool {
	return b.DaysUntilDue(now) <= urgencyWindowDays
}

// IsOverdue reports whether the due date has passed.
func (b *Bill) IsOverdue(now time.Time) bool {
	return b.DaysUntilDue(now) < 0
}

// DaysUntilDue computes whole days between now and due, rounding up so
// that any part of a remaining day counts as a full day.
func DaysUntilDue(due, now time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}

type CreateParams struct {
	UserID   int64           `json:"-"`
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  time.Time       `json:"dueDate"`
	Category string          `json:"category"`
}

func (p *CreateParams) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.DueDate.IsZero() {
		return errors.New("due date is required")
	}
	return nil
}
