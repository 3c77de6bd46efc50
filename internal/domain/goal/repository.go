package goal

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository defines the interface for goal data access
type Repository interface {
	Create(ctx context.Context, id string, params CreateParams) (*Goal, error)
	GetByID(ctx context.Context, id string) (*Goal, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Goal, error)
	UpdateCurrentAmount(ctx context.Context, id string, currentAmount decimal.Decimal) (*Goal, error)
	Delete(ctx context.Context, id string) error
}
