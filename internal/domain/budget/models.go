package budget

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrBudgetNotFound = errors.New("budget not found")
	ErrForbidden      = errors.New("access denied")
	ErrInvalidLimit   = errors.New("monthly limit must be positive")
	ErrCategoryTaken  = errors.New("a budget for this category already exists")
)

// Alert thresholds as a percentage of the monthly limit.
const (
	warningThreshold  = 75
	criticalThreshold = 90
)

type Status string

const (
	StatusOK       Status = "ok"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"
)

type Budget struct {
	ID           string          `json:"id"`
	UserID       int64           `json:"-"`
	Category     string          `json:"category"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Utilization returns spending as a whole percentage of the monthly
// limit, truncated. A zero limit yields 0.
func (b *Budget) Utilization(spent decimal.Decimal) int {
	if !b.MonthlyLimit.IsPositive() {
		return 0
	}
	return int(spent.Mul(decimal.NewFromInt(100)).Div(b.MonthlyLimit).IntPart())
}

// StatusFor classifies spending against the alert thresholds.
func (b *Budget) StatusFor(spent decimal.Decimal) Status {
	percent := b.Utilization(spent)
	switch {
	case percent >= criticalThreshold:
		return StatusCritical
	case percent >= warningThreshold:
		return StatusWarning
	default:
		return StatusOK
	}
}

// Report is a budget annotated with the current month's spending.
type Report struct {
	Budget
	Spent       decimal.Decimal `json:"spent"`
	Utilization int             `json:"utilization"`
	Status      Status          `json:"status"`
}

type CreateParams struct {
	UserID       int64           `json:"-"`
	Category     string          `json:"category"`
	MonthlyLimit decimal.Decimal `json:"monthlyLimit"`
}

func (p *CreateParams) Validate() error {
	if strings.TrimSpace(p.Category) == "" {
		return errors.New("category is required")
	}
	if !p.MonthlyLimit.IsPositive() {
		return ErrInvalidLimit
	}
	return nil
}
