package goal

import (
	"context"
	"fmt"
	"log"

	"contas/internal/shared/messages"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const categoryGoals = "goals"

// Milestone tiers, highest first. A deposit that crosses one of these
// thresholds triggers a progress notification.
var milestones = []float64{100, 75, 50, 25}

// Notifier delivers a user-facing notification. Implemented by the
// notification service; may be nil, in which case progress notifications
// are skipped.
type Notifier interface {
	Notify(ctx context.Context, userID int64, category, title, body, tag string) error
}

// Service contains the business logic for savings goal operations
type Service struct {
	repo     Repository
	notifier Notifier
	msgs     *messages.Messages
}

// NewService creates a new goal service. notifier may be nil.
func NewService(repo Repository, notifier Notifier, msgs *messages.Messages) *Service {
	if msgs == nil {
		msgs = messages.Default()
	}
	return &Service{repo: repo, notifier: notifier, msgs: msgs}
}

// Create stores a new savings goal with a zero running balance.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Goal, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, uuid.NewString(), params)
}

// List returns a user's goals, newest first.
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]*Goal, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListByUserID(ctx, userID, limit, offset)
}

// Get returns a single goal, enforcing ownership.
func (s *Service) Get(ctx context.Context, id string, userID int64) (*Goal, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGoalNotFound
	}
	if g.UserID != userID {
		return nil, ErrForbidden
	}
	return g, nil
}

// Deposit adds amount to the goal's running balance, saturating at the
// target: any excess beyond the target is silently dropped. Rejects
// non-positive amounts with ErrInvalidAmount before mutating anything.
func (s *Service) Deposit(ctx context.Context, id string, userID int64, amount decimal.Decimal) (*Goal, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	g, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	before := g.Progress()

	newAmount := g.CurrentAmount.Add(amount)
	if newAmount.GreaterThan(g.TargetAmount) {
		newAmount = g.TargetAmount
	}

	updated, err := s.repo.UpdateCurrentAmount(ctx, id, newAmount)
	if err != nil {
		return nil, err
	}

	s.notifyMilestone(ctx, updated, before)

	return updated, nil
}

// Delete removes a goal, enforcing ownership.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// notifyMilestone sends a progress notification when a deposit crosses a
// milestone tier. Delivery failures are logged, never surfaced.
func (s *Service) notifyMilestone(ctx context.Context, g *Goal, beforePercent float64) {
	if s.notifier == nil {
		return
	}

	tier := MilestoneCrossed(beforePercent, g.Progress())
	if tier == 0 {
		return
	}

	var title, body string
	if tier >= 100 {
		title = s.msgs.GoalCompleted.Title
		body = fmt.Sprintf(s.msgs.GoalCompleted.Body, g.Name)
	} else {
		title = s.msgs.GoalMilestone.Title
		body = fmt.Sprintf(s.msgs.GoalMilestone.Body, g.Name, tier)
	}

	tag := "goal-progress-" + g.Name
	if err := s.notifier.Notify(ctx, g.UserID, categoryGoals, title, body, tag); err != nil {
		log.Printf("Warning: failed to send goal progress notification for goal %s: %v", g.ID, err)
	}
}

// MilestoneCrossed returns the highest milestone tier passed between two
// progress values, or 0 if none was crossed.
func MilestoneCrossed(before, after float64) int {
	for _, m := range milestones {
		if before < m && after >= m {
			return int(m)
		}
	}
	return 0
}
