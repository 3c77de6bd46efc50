package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"contas/internal/domain/reminder"
)

type ReminderRepository struct {
	db *DB
}

func NewReminderRepository(db *DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

const reminderColumns = "id, bill_id, user_id, bill_name, amount, kind, fires_at, status, fired_at, created_at"

func (r *ReminderRepository) Create(ctx context.Context, event *reminder.ReminderEvent) error {
	query := `
		INSERT INTO reminder_events (id, bill_id, user_id, bill_name, amount, kind, fires_at, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.BillID, event.UserID, event.BillName, event.Amount,
		string(event.Kind), event.FiresAt, string(event.Status), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder event: %w", err)
	}
	return nil
}

func (r *ReminderRepository) ListScheduledByBillID(ctx context.Context, billID string) ([]*reminder.ReminderEvent, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminder_events
		WHERE bill_id = $1 AND status = 'scheduled'
		ORDER BY fires_at ASC
	`
	return r.queryList(ctx, query, billID)
}

// ClaimDue transitions due scheduled events to fired and returns them.
// The UPDATE is atomic, so concurrent dispatchers and in-process timers
// never deliver the same event twice.
func (r *ReminderRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*reminder.ReminderEvent, error) {
	query := `
		UPDATE reminder_events
		SET status = 'fired', fired_at = $1
		WHERE id IN (
			SELECT id FROM reminder_events
			WHERE status = 'scheduled' AND fires_at <= $1
			ORDER BY fires_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + reminderColumns

	return r.queryList(ctx, query, now, limit)
}

func (r *ReminderRepository) MarkFired(ctx context.Context, id string) (*reminder.ReminderEvent, error) {
	query := `
		UPDATE reminder_events
		SET status = 'fired', fired_at = NOW()
		WHERE id = $1 AND status = 'scheduled'
		RETURNING ` + reminderColumns

	event, err := scanReminderRow(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, reminder.ErrAlreadyFired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to mark reminder event fired: %w", err)
	}
	return event, nil
}

// Release reverses a claim that never resulted in a delivery attempt,
// putting the event back where the next poll will pick it up.
func (r *ReminderRepository) Release(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE reminder_events SET status = 'scheduled', fired_at = NULL WHERE id = $1 AND status = 'fired'`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to release reminder event: %w", err)
	}
	return nil
}

func (r *ReminderRepository) CancelByBillID(ctx context.Context, billID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reminder_events SET status = 'cancelled' WHERE bill_id = $1 AND status = 'scheduled'`,
		billID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel reminder events: %w", err)
	}
	n, err := result.RowsAffected()
	return int(n), err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminderRow(row rowScanner) (*reminder.ReminderEvent, error) {
	var e reminder.ReminderEvent
	var kind, status string
	if err := row.Scan(
		&e.ID, &e.BillID, &e.UserID, &e.BillName, &e.Amount,
		&kind, &e.FiresAt, &status, &e.FiredAt, &e.CreatedAt,
	); err != nil {
		return nil, err
	}
	e.Kind = reminder.Kind(kind)
	e.Status = reminder.Status(status)
	return &e, nil
}

func (r *ReminderRepository) queryList(ctx context.Context, query string, args ...any) ([]*reminder.ReminderEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder events: %w", err)
	}
	defer rows.Close()

	var events []*reminder.ReminderEvent
	for rows.Next() {
		event, err := scanReminderRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
