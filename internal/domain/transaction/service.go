package transaction

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
)

// SummaryCache caches computed dashboard summaries per user.
// Implemented by the Redis client in the infrastructure layer; may be nil.
type SummaryCache interface {
	// GetSummary returns the cached summary, or nil on a miss.
	GetSummary(ctx context.Context, userID int64) (*Summary, error)
	SetSummary(ctx context.Context, userID int64, summary Summary) error
	InvalidateSummary(ctx context.Context, userID int64) error
}

// Service contains the business logic for transaction operations
type Service struct {
	repo  Repository
	cache SummaryCache
}

// NewService creates a new transaction service. cache may be nil.
func NewService(repo Repository, cache SummaryCache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Record stores a new transaction. Transactions are immutable once recorded.
func (s *Service) Record(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	t, err := s.repo.Create(ctx, uuid.NewString(), params)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSummary(ctx, params.UserID); err != nil {
			log.Printf("Warning: failed to invalidate summary cache for user %d: %v", params.UserID, err)
		}
	}

	return t, nil
}

// List returns transactions for a user, newest first, applying the filter.
func (s *Service) List(ctx context.Context, userID int64, filter ListFilter) ([]*Transaction, error) {
	if filter.Limit < 1 || filter.Limit > 200 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if filter.Type != "" && !IsValidType(filter.Type) {
		return nil, ErrInvalidType
	}

	return s.repo.ListByUserID(ctx, userID, filter)
}

// Get returns a single transaction, enforcing ownership.
func (s *Service) Get(ctx context.Context, id string, userID int64) (*Transaction, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrTransactionNotFound
	}
	if t.UserID != userID {
		return nil, ErrForbidden
	}
	return t, nil
}

// GetSummary computes the dashboard totals for a user, serving from cache
// when available.
func (s *Service) GetSummary(ctx context.Context, userID int64) (Summary, error) {
	if s.cache != nil {
		cached, err := s.cache.GetSummary(ctx, userID)
		if err != nil {
			log.Printf("Warning: summary cache read failed for user %d: %v", userID, err)
		} else if cached != nil {
			return *cached, nil
		}
	}

	transactions, err := s.repo.ListByUserID(ctx, userID, ListFilter{})
	if err != nil {
		return Summary{}, err
	}

	summary := Summarize(transactions)

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, userID, summary); err != nil {
			log.Printf("Warning: summary cache write failed for user %d: %v", userID, err)
		}
	}

	return summary, nil
}

// CategoryReport breaks down a month's expenses per category. A zero month
// means the current month in UTC.
func (s *Service) CategoryReport(ctx context.Context, userID int64, month time.Time) ([]CategoryTotal, error) {
	if month.IsZero() {
		month = time.Now().UTC()
	}

	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	transactions, err := s.repo.ListByUserIDBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	return ExpenseByCategory(transactions), nil
}
