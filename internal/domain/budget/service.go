package budget

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"contas/internal/domain/transaction"
	"contas/internal/shared/messages"
)

const categoryBudgets = "budgets"

// ExpenseSource supplies the transactions a budget is measured against.
// Satisfied by the transaction repository.
type ExpenseSource interface {
	ListByUserIDBetween(ctx context.Context, userID int64, from, to time.Time) ([]*transaction.Transaction, error)
}

// Notifier delivers budget alerts. Nil disables alerting.
type Notifier interface {
	Notify(ctx context.Context, userID int64, category, title, body, tag string) error
}

type Service struct {
	repo     Repository
	expenses ExpenseSource
	notifier Notifier
	msgs     *messages.Messages
}

func NewService(repo Repository, expenses ExpenseSource, notifier Notifier, msgs *messages.Messages) *Service {
	if msgs == nil {
		msgs = messages.Default()
	}
	return &Service{
		repo:     repo,
		expenses: expenses,
		notifier: notifier,
		msgs:     msgs,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByCategory(ctx, params.UserID, params.Category)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryTaken
	}

	return s.repo.Create(ctx, uuid.NewString(), params)
}

// List returns the user's budgets annotated with the given month's
// spending. A zero month means the current month.
func (s *Service) List(ctx context.Context, userID int64, month time.Time) ([]*Report, error) {
	budgets, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	from, to := monthBounds(month)
	txs, err := s.expenses.ListByUserIDBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	spentByCategory := sumExpenses(txs)

	reports := make([]*Report, 0, len(budgets))
	for _, b := range budgets {
		spent := spentByCategory[b.Category]
		reports = append(reports, &Report{
			Budget:      *b,
			Spent:       spent,
			Utilization: b.Utilization(spent),
			Status:      b.StatusFor(spent),
		})
	}
	return reports, nil
}

func (s *Service) Update(ctx context.Context, id string, userID int64, params CreateParams) (*Budget, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.UpdateLimit(ctx, id, params)
}

func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	if _, err := s.get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// CheckSpending re-evaluates the budget for a category after an expense
// and sends a warning or critical alert when a threshold is reached.
// Categories without a budget are a no-op.
func (s *Service) CheckSpending(ctx context.Context, userID int64, category string) error {
	b, err := s.repo.GetByCategory(ctx, userID, category)
	if err != nil {
		return err
	}
	if b == nil {
		return nil
	}

	from, to := monthBounds(time.Time{})
	txs, err := s.expenses.ListByUserIDBetween(ctx, userID, from, to)
	if err != nil {
		return err
	}
	spent := sumExpenses(txs)[category]

	status := b.StatusFor(spent)
	if status == StatusOK || s.notifier == nil {
		return nil
	}

	percent := b.Utilization(spent)
	var title, body, tag string
	if status == StatusCritical {
		title = s.msgs.BudgetCritical.Title
		body = fmt.Sprintf(s.msgs.BudgetCritical.Body, percent, category)
		tag = "budget-alert-" + category
	} else {
		title = s.msgs.BudgetWarning.Title
		body = fmt.Sprintf(s.msgs.BudgetWarning.Body, percent, category)
		tag = "budget-warning-" + category
	}

	if err := s.notifier.Notify(ctx, userID, categoryBudgets, title, body, tag); err != nil {
		log.Printf("Warning: failed to send budget alert for category %s: %v", category, err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id string, userID int64) (*Budget, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBudgetNotFound
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func monthBounds(month time.Time) (time.Time, time.Time) {
	if month.IsZero() {
		month = time.Now().UTC()
	}
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func sumExpenses(txs []*transaction.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != transaction.TypeExpense {
			continue
		}
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}
