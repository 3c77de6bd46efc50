package goal

import (
	"errors"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrGoalNotFound  = errors.New("goal not found")
	ErrForbidden     = errors.New("access forbidden")
	ErrInvalidAmount = errors.New("deposit amount must be positive")
	ErrInvalidTarget = errors.New("target amount must be positive")
)

// Goal represents a savings target with a running balance.
// Invariant: 0 <= CurrentAmount <= TargetAmount; deposits only ever
// increase CurrentAmount.
type Goal struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"-"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	Deadline      time.Time       `json:"deadline"`
	Category      string          `json:"category"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// Progress returns the goal's percent complete, clamped to [0, 100].
// A goal without a positive target reports 0: it is treated as not yet
// configured rather than trivially complete.
func (g *Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}

	percent, _ := g.CurrentAmount.
		Mul(decimal.NewFromInt(100)).
		Div(g.TargetAmount).
		Float64()

	return math.Min(percent, 100)
}

// IsCompleted reports whether the goal has reached its target.
func (g *Goal) IsCompleted() bool {
	return g.TargetAmount.IsPositive() && g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// DaysRemaining returns the number of whole days until the deadline,
// rounded up. Negative for past deadlines.
func (g *Goal) DaysRemaining(now time.Time) int {
	return int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
}

// CreateParams contains parameters for creating a new goal
type CreateParams struct {
	UserID       int64
	Name         string
	TargetAmount decimal.Decimal
	Deadline     time.Time
	Category     string
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if !p.TargetAmount.IsPositive() {
		return ErrInvalidTarget
	}
	if p.Deadline.IsZero() {
		return errors.New("deadline is required")
	}
	return nil
}
