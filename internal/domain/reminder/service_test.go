package reminder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// memoryRepository is an in-memory Repository for exercising the full
// schedule/claim/cancel lifecycle.
type memoryRepository struct {
	mu     sync.Mutex
	events map[string]*ReminderEvent
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{events: make(map[string]*ReminderEvent)}
}

func (r *memoryRepository) Create(ctx context.Context, event *ReminderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *memoryRepository) ListScheduledByBillID(ctx context.Context, billID string) ([]*ReminderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*ReminderEvent
	for _, e := range r.events {
		if e.BillID == billID && e.Status == StatusScheduled {
			copied := *e
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *memoryRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*ReminderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*ReminderEvent
	for _, e := range r.events {
		if len(claimed) >= limit {
			break
		}
		if e.Status == StatusScheduled && !e.FiresAt.After(now) {
			e.Status = StatusFired
			firedAt := now
			e.FiredAt = &firedAt
			copied := *e
			claimed = append(claimed, &copied)
		}
	}
	return claimed, nil
}

func (r *memoryRepository) MarkFired(ctx context.Context, id string) (*ReminderEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.Status != StatusScheduled {
		return nil, ErrAlreadyFired
	}
	e.Status = StatusFired
	copied := *e
	return &copied, nil
}

func (r *memoryRepository) Release(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[id]; ok && e.Status == StatusFired {
		e.Status = StatusScheduled
		e.FiredAt = nil
	}
	return nil
}

func (r *memoryRepository) CancelByBillID(ctx context.Context, billID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.BillID == billID && e.Status == StatusScheduled {
			e.Status = StatusCancelled
			n++
		}
	}
	return n, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	tags []string
}

func (n *recordingNotifier) Notify(ctx context.Context, userID int64, category, title, body, tag string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tags = append(n.tags, tag)
	return nil
}

func (n *recordingNotifier) recorded() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.tags...)
}

func TestScheduleBill_PersistsBothEvents(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newMemoryRepository()
	svc := NewService(repo, nil, nil, &fixedClock{now: now}, nil)

	due := now.AddDate(0, 0, 3)
	err := svc.ScheduleBill(context.Background(), "bill-1", 1, "Rent", decimal.NewFromInt(1200), due)
	if err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}

	events, _ := repo.ListScheduledByBillID(context.Background(), "bill-1")
	if len(events) != 2 {
		t.Fatalf("got %d scheduled events, want 2", len(events))
	}
	kinds := map[Kind]bool{}
	for _, e := range events {
		kinds[e.Kind] = true
		if e.Status != StatusScheduled {
			t.Errorf("event %s status = %s, want scheduled", e.ID, e.Status)
		}
	}
	if !kinds[KindDayBefore] || !kinds[KindDueToday] {
		t.Errorf("kinds = %v, want both day_before and due_today", kinds)
	}
}

func TestScheduleBill_OverdueSchedulesNothing(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newMemoryRepository()
	svc := NewService(repo, nil, nil, &fixedClock{now: now}, nil)

	err := svc.ScheduleBill(context.Background(), "bill-1", 1, "Rent", decimal.NewFromInt(1200), now.AddDate(0, 0, -1))
	if err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}

	events, _ := repo.ListScheduledByBillID(context.Background(), "bill-1")
	if len(events) != 0 {
		t.Errorf("got %d scheduled events for an overdue bill, want 0", len(events))
	}
}

func TestScheduleBill_ReschedulingReplacesPendingEvents(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	repo := newMemoryRepository()
	svc := NewService(repo, nil, nil, &fixedClock{now: now}, nil)

	ctx := context.Background()
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), now.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("first ScheduleBill() failed: %v", err)
	}
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), now.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("second ScheduleBill() failed: %v", err)
	}

	events, _ := repo.ListScheduledByBillID(ctx, "bill-1")
	if len(events) != 2 {
		t.Fatalf("got %d scheduled events after rescheduling, want 2", len(events))
	}
	wantDue := now.AddDate(0, 0, 5)
	for _, e := range events {
		if e.Kind == KindDueToday && !e.FiresAt.Equal(wantDue) {
			t.Errorf("due_today fires at %s, want %s", e.FiresAt, wantDue)
		}
	}
}

func TestDispatchDue(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	clock := &fixedClock{now: now}
	repo := newMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil, clock, nil)

	ctx := context.Background()
	due := now.Add(26 * time.Hour)
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), due); err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}

	// Nothing is due yet
	n, err := svc.DispatchDue(ctx, 0)
	if err != nil {
		t.Fatalf("DispatchDue() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("dispatched %d events before anything was due, want 0", n)
	}

	// Advance past the day-before trigger
	clock.now = due.Add(-23 * time.Hour)
	n, err = svc.DispatchDue(ctx, 0)
	if err != nil {
		t.Fatalf("DispatchDue() failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("dispatched %d events, want 1", n)
	}
	if tags := notifier.recorded(); len(tags) != 1 || tags[0] != "bill-reminder-Rent" {
		t.Errorf("tags = %v, want [bill-reminder-Rent]", tags)
	}

	// Advance past the due date; only the due_today event remains
	clock.now = due.Add(time.Minute)
	n, err = svc.DispatchDue(ctx, 0)
	if err != nil {
		t.Fatalf("DispatchDue() failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("dispatched %d events, want 1", n)
	}
	if tags := notifier.recorded(); len(tags) != 2 || tags[1] != "bill-due-Rent" {
		t.Errorf("tags = %v, want bill-due-Rent last", tags)
	}

	// A further poll redelivers nothing
	n, _ = svc.DispatchDue(ctx, 0)
	if n != 0 {
		t.Errorf("dispatched %d events on a repeat poll, want 0", n)
	}
}

func TestCancelForBill_SuppressesDelivery(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	clock := &fixedClock{now: now}
	repo := newMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewService(repo, notifier, nil, clock, nil)

	ctx := context.Background()
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), now.AddDate(0, 0, 2)); err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}
	if err := svc.CancelForBill(ctx, "bill-1"); err != nil {
		t.Fatalf("CancelForBill() failed: %v", err)
	}

	clock.now = now.AddDate(0, 0, 10)
	n, err := svc.DispatchDue(ctx, 0)
	if err != nil {
		t.Fatalf("DispatchDue() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("dispatched %d cancelled events, want 0", n)
	}
	if tags := notifier.recorded(); len(tags) != 0 {
		t.Errorf("notifications = %v after cancellation, want none", tags)
	}
}

func TestTimerPath_FiresOnceEvenWithDispatcher(t *testing.T) {
	now := time.Now()
	repo := newMemoryRepository()
	notifier := &recordingNotifier{}
	timers := NewTimerSet()
	defer timers.Stop()
	svc := NewService(repo, notifier, nil, nil, timers)

	ctx := context.Background()
	// Due almost immediately so the armed timer fires during the test
	due := now.Add(30 * time.Millisecond)
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), due); err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}

	time.Sleep(150 * time.Millisecond)

	// The timer already claimed the event; the poll must not redeliver
	n, err := svc.DispatchDue(ctx, 0)
	if err != nil {
		t.Fatalf("DispatchDue() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("dispatcher re-claimed %d events the timer already fired, want 0", n)
	}
	if tags := notifier.recorded(); len(tags) != 1 {
		t.Errorf("got %d deliveries, want exactly 1", len(tags))
	}
}

func TestShutdown_StopsTimers(t *testing.T) {
	repo := newMemoryRepository()
	timers := NewTimerSet()
	svc := NewService(repo, nil, nil, nil, timers)

	ctx := context.Background()
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}
	if timers.Pending() == 0 {
		t.Fatal("no timers armed")
	}

	svc.Shutdown()
	if timers.Pending() != 0 {
		t.Errorf("%d timers still pending after shutdown, want 0", timers.Pending())
	}

	// Events stay scheduled for the next process to pick up
	events, _ := repo.ListScheduledByBillID(ctx, "bill-1")
	if len(events) == 0 {
		t.Error("persisted events were lost on shutdown")
	}
}

func TestRelease_MakesEventClaimableAgain(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	clock := &fixedClock{now: now}
	repo := newMemoryRepository()
	svc := NewService(repo, nil, nil, clock, nil)

	ctx := context.Background()
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), now.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}

	clock.now = now.AddDate(0, 0, 4)
	claimed, err := svc.ClaimDue(ctx, 0)
	if err != nil {
		t.Fatalf("ClaimDue() failed: %v", err)
	}
	if len(claimed) != 2 {
		t.Fatalf("claimed %d events, want 2", len(claimed))
	}

	// Put one back, as the dispatcher does when the queue is full
	if err := svc.Release(ctx, claimed[0].ID); err != nil {
		t.Fatalf("Release() failed: %v", err)
	}

	reclaimed, err := svc.ClaimDue(ctx, 0)
	if err != nil {
		t.Fatalf("ClaimDue() failed: %v", err)
	}
	if len(reclaimed) != 1 {
		t.Fatalf("reclaimed %d events after release, want 1", len(reclaimed))
	}
	if reclaimed[0].ID != claimed[0].ID {
		t.Errorf("reclaimed event %s, want the released %s", reclaimed[0].ID, claimed[0].ID)
	}
}

func TestListForBill_ReturnsOnlyPendingEvents(t *testing.T) {
	now := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	clock := &fixedClock{now: now}
	repo := newMemoryRepository()
	svc := NewService(repo, nil, nil, clock, nil)

	ctx := context.Background()
	if err := svc.ScheduleBill(ctx, "bill-1", 1, "Rent", decimal.NewFromInt(1200), now.AddDate(0, 0, 3)); err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}
	if err := svc.ScheduleBill(ctx, "bill-2", 1, "Water", decimal.NewFromInt(80), now.AddDate(0, 0, 5)); err != nil {
		t.Fatalf("ScheduleBill() failed: %v", err)
	}

	events, err := svc.ListForBill(ctx, "bill-1")
	if err != nil {
		t.Fatalf("ListForBill() failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events for bill-1, want 2", len(events))
	}
	for _, e := range events {
		if e.BillID != "bill-1" {
			t.Errorf("event %s belongs to bill %s, want bill-1", e.ID, e.BillID)
		}
	}

	if err := svc.CancelForBill(ctx, "bill-1"); err != nil {
		t.Fatalf("CancelForBill() failed: %v", err)
	}
	events, _ = svc.ListForBill(ctx, "bill-1")
	if len(events) != 0 {
		t.Errorf("got %d events after cancellation, want 0", len(events))
	}
}
