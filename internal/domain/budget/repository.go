package budget

import "context"

type Repository interface {
	Create(ctx context.Context, id string, params CreateParams) (*Budget, error)
	GetByID(ctx context.Context, id string) (*Budget, error)
	GetByCategory(ctx context.Context, userID int64, category string) (*Budget, error)
	ListByUserID(ctx context.Context, userID int64) ([]*Budget, error)
	UpdateLimit(ctx context.Context, id string, params CreateParams) (*Budget, error)
	Delete(ctx context.Context, id string) error
}
