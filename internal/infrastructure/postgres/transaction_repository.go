package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"contas/internal/domain/transaction"
)

type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, id string, params transaction.CreateParams) (*transaction.Transaction, error) {
	query := `
		INSERT INTO transactions (id, user_id, title, amount, type, category, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, title, amount, type, category, date, created_at
	`

	var tx transaction.Transaction
	err := r.db.QueryRowContext(ctx, query,
		id, params.UserID, params.Title, params.Amount, params.Type, params.Category, params.Date,
	).Scan(
		&tx.ID, &tx.UserID, &tx.Title, &tx.Amount, &tx.Type, &tx.Category, &tx.Date, &tx.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return &tx, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, title, amount, type, category, date, created_at
		FROM transactions
		WHERE id = $1
	`

	var tx transaction.Transaction
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&tx.ID, &tx.UserID, &tx.Title, &tx.Amount, &tx.Type, &tx.Category, &tx.Date, &tx.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return &tx, nil
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID int64, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, title, amount, type, category, date, created_at
		FROM transactions
		WHERE user_id = $1
	`
	args := []any{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += " AND type = $" + strconv.Itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += " AND title ILIKE $" + strconv.Itoa(len(args))
	}

	query += " ORDER BY date DESC, created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	return r.queryList(ctx, query, args...)
}

func (r *TransactionRepository) ListByUserIDBetween(ctx context.Context, userID int64, from, to time.Time) ([]*transaction.Transaction, error) {
	query := `
		SELECT id, user_id, title, amount, type, category, date, created_at
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date < $3
		ORDER BY date DESC
	`
	return r.queryList(ctx, query, userID, from, to)
}

func (r *TransactionRepository) queryList(ctx context.Context, query string, args ...any) ([]*transaction.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction
	for rows.Next() {
		var tx transaction.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Title, &tx.Amount, &tx.Type, &tx.Category, &tx.Date, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, &tx)
	}

	return txs, rows.Err()
}
