package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"contas/internal/domain/budget"
)

type BudgetRepository struct {
	db *DB
}

func NewBudgetRepository(db *DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

const budgetColumns = "id, user_id, category, monthly_limit, created_at, updated_at"

func (r *BudgetRepository) Create(ctx context.Context, id string, params budget.CreateParams) (*budget.Budget, error) {
	query := `
		INSERT INTO budgets (id, user_id, category, monthly_limit)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + budgetColumns

	var b budget.Budget
	err := r.db.QueryRowContext(ctx, query,
		id, params.UserID, params.Category, params.MonthlyLimit,
	).Scan(
		&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, budget.ErrCategoryTaken
		}
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return &b, nil
}

func (r *BudgetRepository) GetByID(ctx context.Context, id string) (*budget.Budget, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *BudgetRepository) GetByCategory(ctx context.Context, userID int64, category string) (*budget.Budget, error) {
	return r.getBy(ctx, "user_id = $1 AND category = $2", userID, category)
}

func (r *BudgetRepository) getBy(ctx context.Context, where string, args ...any) (*budget.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE ` + where

	var b budget.Budget
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &b, nil
}

func (r *BudgetRepository) ListByUserID(ctx context.Context, userID int64) ([]*budget.Budget, error) {
	query := `
		SELECT ` + budgetColumns + `
		FROM budgets
		WHERE user_id = $1
		ORDER BY category ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []*budget.Budget
	for rows.Next() {
		var b budget.Budget
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, &b)
	}

	return budgets, rows.Err()
}

func (r *BudgetRepository) UpdateLimit(ctx context.Context, id string, params budget.CreateParams) (*budget.Budget, error) {
	query := `
		UPDATE budgets
		SET monthly_limit = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + budgetColumns

	var b budget.Budget
	err := r.db.QueryRowContext(ctx, query, id, params.MonthlyLimit).Scan(
		&b.ID, &b.UserID, &b.Category, &b.MonthlyLimit, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, budget.ErrBudgetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return &b, nil
}

func (r *BudgetRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}
