package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contas/internal/domain/bill"
)

type BillRepository struct {
	db *DB
}

func NewBillRepository(db *DB) *BillRepository {
	return &BillRepository{db: db}
}

const billColumns = "id, user_id, name, amount, due_date, category, is_paid, created_at"

func (r *BillRepository) Create(ctx context.Context, id string, params bill.CreateParams) (*bill.Bill, error) {
	query := `
		INSERT INTO bills (id, user_id, name, amount, due_date, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + billColumns

	var b bill.Bill
	err := r.db.QueryRowContext(ctx, query,
		id, params.UserID, params.Name, params.Amount, params.DueDate, params.Category,
	).Scan(
		&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate, &b.Category, &b.IsPaid, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}

	return &b, nil
}

func (r *BillRepository) GetByID(ctx context.Context, id string) (*bill.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`

	var b bill.Bill
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate, &b.Category, &b.IsPaid, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}

	return &b, nil
}

func (r *BillRepository) ListUnpaidByUserID(ctx context.Context, userID int64) ([]*bill.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE user_id = $1 AND NOT is_paid
		ORDER BY due_date ASC
	`
	return r.queryList(ctx, query, userID)
}

func (r *BillRepository) ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*bill.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE user_id = $1
		ORDER BY due_date ASC
		LIMIT $2 OFFSET $3
	`
	return r.queryList(ctx, query, userID, limit, offset)
}

func (r *BillRepository) MarkPaid(ctx context.Context, id string) (*bill.Bill, error) {
	query := `
		UPDATE bills
		SET is_paid = true
		WHERE id = $1
		RETURNING ` + billColumns

	var b bill.Bill
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate, &b.Category, &b.IsPaid, &b.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, bill.ErrBillNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark bill paid: %w", err)
	}

	return &b, nil
}

func (r *BillRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	return nil
}

func (r *BillRepository) queryList(ctx context.Context, query string, args ...any) ([]*bill.Bill, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*bill.Bill
	for rows.Next() {
		var b bill.Bill
		if err := rows.Scan(
			&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate, &b.Category, &b.IsPaid, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, &b)
	}

	return bills, rows.Err()
}
