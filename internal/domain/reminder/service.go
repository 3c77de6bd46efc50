package reminder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contas/internal/shared/messages"
)

const categoryBills = "bills"

// Notifier delivers reminder notifications. Nil disables delivery but
// events are still recorded and claimed.
type Notifier interface {
	Notify(ctx context.Context, userID int64, category, title, body, tag string) error
}

type Service struct {
	repo     Repository
	notifier Notifier
	msgs     *messages.Messages
	clock    Clock
	timers   *TimerSet
}

// NewService wires the reminder pipeline. A nil clock falls back to the
// system clock; a nil timer set disables in-process timers, leaving
// delivery entirely to the polling dispatcher.
func NewService(repo Repository, notifier Notifier, msgs *messages.Messages, clock Clock, timers *TimerSet) *Service {
	if msgs == nil {
		msgs = messages.Default()
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		msgs:     msgs,
		clock:    clock,
		timers:   timers,
	}
}

// ScheduleBill replaces any pending reminders for a bill with a fresh
// pair computed from its due date. Triggers already in the past are
// skipped entirely, never fired late.
func (s *Service) ScheduleBill(ctx context.Context, billID string, userID int64, name string, amount decimal.Decimal, dueDate time.Time) error {
	if err := s.CancelForBill(ctx, billID); err != nil {
		return err
	}

	now := s.clock.Now()
	for _, trigger := range Plan(dueDate, now) {
		event := &ReminderEvent{
			ID:        uuid.NewString(),
			BillID:    billID,
			UserID:    userID,
			BillName:  name,
			Amount:    amount,
			Kind:      trigger.Kind,
			FiresAt:   trigger.FiresAt,
			Status:    StatusScheduled,
			CreatedAt: now,
		}
		if err := s.repo.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to persist reminder event: %w", err)
		}

		if s.timers != nil {
			eventID := event.ID
			s.timers.Arm(eventID, billID, trigger.FiresAt.Sub(now), func() {
				s.fireEvent(context.Background(), eventID)
			})
		}
	}
	return nil
}

// CancelForBill drops all pending reminders for a bill, both the
// persisted events and any armed timers.
func (s *Service) CancelForBill(ctx context.Context, billID string) error {
	if s.timers != nil {
		s.timers.CancelBill(billID)
	}
	_, err := s.repo.CancelByBillID(ctx, billID)
	return err
}

// ListForBill returns the pending reminder events for a bill, soonest
// first.
func (s *Service) ListForBill(ctx context.Context, billID string) ([]*ReminderEvent, error) {
	return s.repo.ListScheduledByBillID(ctx, billID)
}

// ClaimDue atomically claims up to limit scheduled events whose time
// has come. Claimed events must be delivered by the caller.
func (s *Service) ClaimDue(ctx context.Context, limit int) ([]*ReminderEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ClaimDue(ctx, s.clock.Now(), limit)
}

// DispatchDue claims every scheduled event whose time has come and
// delivers it inline. Called periodically by the dispatcher; safe to
// run concurrently with the in-process timers since claiming is atomic.
func (s *Service) DispatchDue(ctx context.Context, limit int) (int, error) {
	events, err := s.ClaimDue(ctx, limit)
	if err != nil {
		return 0, err
	}

	for _, event := range events {
		if err := s.Deliver(ctx, event); err != nil {
			log.Printf("Warning: failed to deliver reminder %s for bill %s: %v", event.ID, event.BillID, err)
		}
	}
	return len(events), nil
}

// Release puts a claimed event back in the scheduled state. Used when
// delivery could not even be attempted, e.g. the work queue was full.
func (s *Service) Release(ctx context.Context, eventID string) error {
	return s.repo.Release(ctx, eventID)
}

// Shutdown stops all in-process timers. Pending events stay scheduled
// in storage and are picked up after restart.
func (s *Service) Shutdown() {
	if s.timers != nil {
		s.timers.Stop()
	}
}

// fireEvent is the in-process timer path. The scheduled-to-fired
// transition is atomic, so an event the dispatcher already claimed is
// silently skipped.
func (s *Service) fireEvent(ctx context.Context, eventID string) {
	event, err := s.repo.MarkFired(ctx, eventID)
	if err != nil {
		if !errors.Is(err, ErrAlreadyFired) {
			log.Printf("Error firing reminder event %s: %v", eventID, err)
		}
		return
	}
	if err := s.Deliver(ctx, event); err != nil {
		log.Printf("Warning: failed to deliver reminder %s for bill %s: %v", event.ID, event.BillID, err)
	}
}

// Deliver sends the notification for an already claimed event.
func (s *Service) Deliver(ctx context.Context, event *ReminderEvent) error {
	if s.notifier == nil {
		return nil
	}

	var title, body string
	switch event.Kind {
	case KindDueToday:
		title = s.msgs.BillDueToday.Title
		body = fmt.Sprintf(s.msgs.BillDueToday.Body, event.BillName, "$"+event.Amount.StringFixed(2))
	default:
		title = s.msgs.BillDueTomorrow.Title
		body = fmt.Sprintf(s.msgs.BillDueTomorrow.Body, event.BillName, "$"+event.Amount.StringFixed(2))
	}

	return s.notifier.Notify(ctx, event.UserID, categoryBills, title, body, event.Tag())
}
