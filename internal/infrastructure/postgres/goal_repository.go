package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"contas/internal/domain/goal"
)

type GoalRepository struct {
	db *DB
}

func NewGoalRepository(db *DB) *GoalRepository {
	return &GoalRepository{db: db}
}

const goalColumns = "id, user_id, name, target_amount, current_amount, deadline, category, created_at, updated_at"

func (r *GoalRepository) Create(ctx context.Context, id string, params goal.CreateParams) (*goal.Goal, error) {
	query := `
		INSERT INTO goals (id, user_id, name, target_amount, deadline, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + goalColumns

	var g goal.Goal
	err := r.db.QueryRowContext(ctx, query,
		id, params.UserID, params.Name, params.TargetAmount, params.Deadline, params.Category,
	).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Category, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return &g, nil
}

func (r *GoalRepository) GetByID(ctx context.Context, id string) (*goal.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE id = $1`

	var g goal.Goal
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Category, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return &g, nil
}

func (r *GoalRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*goal.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*goal.Goal
	for rows.Next() {
		var g goal.Goal
		if err := rows.Scan(
			&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Category, &g.CreatedAt, &g.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, &g)
	}

	return goals, rows.Err()
}

func (r *GoalRepository) UpdateCurrentAmount(ctx context.Context, id string, currentAmount decimal.Decimal) (*goal.Goal, error) {
	query := `
		UPDATE goals
		SET current_amount = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + goalColumns

	var g goal.Goal
	err := r.db.QueryRowContext(ctx, query, id, currentAmount).Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.Deadline, &g.Category, &g.CreatedAt, &g.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, goal.ErrGoalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update goal amount: %w", err)
	}

	return &g, nil
}

func (r *GoalRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
