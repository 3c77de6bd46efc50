package reminder

import (
	"context"
	"time"
)

// Repository persists reminder events. Defined in the domain layer,
// implemented in the infrastructure layer.
type Repository interface {
	Create(ctx context.Context, event *ReminderEvent) error
	ListScheduledByBillID(ctx context.Context, billID string) ([]*ReminderEvent, error)
	// ClaimDue atomically moves up to limit scheduled events whose
	// FiresAt is at or before now into the fired state and returns
	// them. Concurrent dispatchers never claim the same event twice.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*ReminderEvent, error)
	// MarkFired atomically transitions a single scheduled event to
	// fired. Returns ErrAlreadyFired if it is not scheduled anymore.
	MarkFired(ctx context.Context, id string) (*ReminderEvent, error)
	// Release returns a claimed event to the scheduled state so a
	// later poll can claim it again.
	Release(ctx context.Context, id string) error
	CancelByBillID(ctx context.Context, billID string) (int, error)
}
