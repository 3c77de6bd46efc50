package transaction

import (
	"context"
	"time"
)

// Repository defines the interface for transaction data access.
// Transactions are append-only: there are no update or delete operations.
type Repository interface {
	Create(ctx context.Context, id string, params CreateParams) (*Transaction, error)
	GetByID(ctx context.Context, id string) (*Transaction, error)
	ListByUserID(ctx context.Context, userID int64, filter ListFilter) ([]*Transaction, error)
	ListByUserIDBetween(ctx context.Context, userID int64, from, to time.Time) ([]*Transaction, error)
}
