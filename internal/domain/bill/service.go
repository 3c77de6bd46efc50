package bill

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReminderScheduler plugs the bill domain into reminder scheduling.
// Implemented by the reminder service; nil disables reminders.
type ReminderScheduler interface {
	ScheduleBill(ctx context.Context, billID string, userID int64, name string, amount decimal.Decimal, dueDate time.Time) error
	CancelForBill(ctx context.Context, billID string) error
}

type Service struct {
	repo      Repository
	reminders ReminderScheduler
}

func NewService(repo Repository, reminders ReminderScheduler) *Service {
	return &Service{
		repo:      repo,
		reminders: reminders,
	}
}

// Create registers a new bill and schedules its due-date reminders.
// Reminder failures are logged, never surfaced: the bill itself is saved.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Bill, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.Create(ctx, uuid.NewString(), params)
	if err != nil {
		return nil, err
	}

	if s.reminders != nil {
		if err := s.reminders.ScheduleBill(ctx, b.ID, b.UserID, b.Name, b.Amount, b.DueDate); err != nil {
			log.Printf("Warning: failed to schedule reminders for bill %s: %v", b.ID, err)
		}
	}

	return b, nil
}

// ListUpcoming returns the user's unpaid bills ordered by due date.
func (s *Service) ListUpcoming(ctx context.Context, userID int64) ([]*Bill, error) {
	return s.repo.ListUnpaidByUserID(ctx, userID)
}

// List returns a page of all the user's bills, paid or not.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]*Bill, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

// Get returns a single bill, enforcing ownership.
func (s *Service) Get(ctx context.Context, id string, userID int64) (*Bill, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBillNotFound
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

// ScheduleReminders re-arms the reminder plan for an unpaid bill.
// Unlike Create, a scheduling failure is surfaced: the caller asked
// for reminders explicitly and should know they were not armed.
func (s *Service) ScheduleReminders(ctx context.Context, id string, userID int64) (*Bill, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrAlreadyPaid
	}

	if s.reminders != nil {
		if err := s.reminders.ScheduleBill(ctx, b.ID, b.UserID, b.Name, b.Amount, b.DueDate); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// MarkPaid settles a bill and cancels its pending reminders.
func (s *Service) MarkPaid(ctx context.Context, id string, userID int64) (*Bill, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if b.IsPaid {
		return nil, ErrAlreadyPaid
	}

	updated, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.reminders != nil {
		if err := s.reminders.CancelForBill(ctx, id); err != nil {
			log.Printf("Warning: failed to cancel reminders for bill %s: %v", id, err)
		}
	}

	return updated, nil
}

// Delete removes a bill and cancels its pending reminders.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.reminders != nil {
		if err := s.reminders.CancelForBill(ctx, id); err != nil {
			log.Printf("Warning: failed to cancel reminders for bill %s: %v", id, err)
		}
	}

	return nil
}
