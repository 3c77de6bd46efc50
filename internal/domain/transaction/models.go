package transaction

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. Amounts are always non-negative; the direction of a
// transaction is carried by its type, never by the sign of the amount.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

var validTypes = map[string]struct{}{
	TypeIncome:  {},
	TypeExpense: {},
}

// Domain errors
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrInvalidType         = errors.New("transaction type must be 'income' or 'expense'")
	ErrInvalidAmount       = errors.New("amount must be a positive value")
)

// Transaction represents a single recorded income or expense event.
// Transactions are immutable once recorded.
type Transaction struct {
	ID        string          `json:"id"`
	UserID    int64           `json:"-"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Category  string          `json:"category"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
}

// CreateParams contains parameters for recording a new transaction
type CreateParams struct {
	UserID   int64
	Title    string
	Amount   decimal.Decimal
	Type     string
	Category string
	Date     time.Time
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Title == "" {
		return errors.New("title is required")
	}
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !IsValidType(p.Type) {
		return ErrInvalidType
	}
	if p.Date.IsZero() {
		return errors.New("date is required")
	}
	return nil
}

// ListFilter narrows a transaction listing. Zero values mean "no filter".
type ListFilter struct {
	Type   string
	Search string
	Limit  int
	Offset int
}

// IsValidType checks if the provided transaction type is valid
func IsValidType(t string) bool {
	_, ok := validTypes[t]
	return ok
}
