package bill

import "context"

type Repository interface {
	Create(ctx context.Context, id string, params CreateParams) (*Bill, error)
	GetByID(ctx context.Context, id string) (*Bill, error)
	// ListUnpaidByUserID returns unpaid bills ordered by due date ascending.
	ListUnpaidByUserID(ctx context.Context, userID int64) ([]*Bill, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Bill, error)
	MarkPaid(ctx context.Context, id string) (*Bill, error)
	Delete(ctx context.Context, id string) error
}
