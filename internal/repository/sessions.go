package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lakshmikitchen/internal/apperr"
	"lakshmikitchen/internal/model"
)

type SessionRepo struct {
	db *sql.DB
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// InsertActive creates a new active session. The partial unique index on
// status='active' makes the check-then-insert atomic: a concurrent start
// loses with a unique violation, reported as Conflict.
func (r *SessionRepo) InsertActive(ctx context.Context, adminID int64, start time.Time) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO order_management_sessions (start_time, status, created_by)
		VALUES ($1, $2, $3)
		RETURNING id
	`, start, model.SessionActive, adminID)

	s := &model.Session{
		StartTime: start,
		Status:    model.SessionActive,
		CreatedBy: adminID,
	}
	if err := row.Scan(&s.ID); err != nil {
		return nil, conflictOn(err, "an order session is already active")
	}
	return s, nil
}

// StopActive closes the active session and clears the live flag on its
// orders, both in one transaction. Conflict when nothing is active.
func (r *SessionRepo) StopActive(ctx context.Context, end time.Time) (*model.Session, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE order_management_sessions
		SET status = $1, end_time = $2
		WHERE status = $3
		RETURNING id, start_time, created_by
	`, model.SessionStopped, end, model.SessionActive)

	s := &model.Session{Status: model.SessionStopped, EndTime: &end}
	var createdBy sql.NullInt64
	if err := row.Scan(&s.ID, &s.StartTime, &createdBy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.KindConflict, "no active order session")
		}
		return nil, fmt.Errorf("stop session: %w", err)
	}
	s.CreatedBy = createdBy.Int64

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET is_current_order = FALSE WHERE session_id = $1`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("clear current orders: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s, nil
}

// Active returns the active session, or nil when none is.
func (r *SessionRepo) Active(ctx context.Context) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_time, status, COALESCE(created_by, 0)
		FROM order_management_sessions
		WHERE status = $1
	`, model.SessionActive)

	var s model.Session
	err := row.Scan(&s.ID, &s.StartTime, &s.Status, &s.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return &s, nil
}

// LastStopped returns the most recently closed session, or nil.
func (r *SessionRepo) LastStopped(ctx context.Context) (*model.Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, start_time, end_time, status, COALESCE(created_by, 0)
		FROM order_management_sessions
		WHERE status = $1
		ORDER BY end_time DESC
		LIMIT 1
	`, model.SessionStopped)

	var s model.Session
	err := row.Scan(&s.ID, &s.StartTime, &s.EndTime, &s.Status, &s.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last stopped session: %w", err)
	}
	return &s, nil
}

// ProductSummary aggregates per-product quantities for a session, largest
// first.
func (r *SessionRepo) ProductSummary(ctx context.Context, sessionID int64) ([]model.ProductSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, SUM(i.quantity) AS quantity
		FROM orders o
		JOIN order_items i ON i.order_id = o.id
		JOIN products p ON p.id = i.product_id
		WHERE o.session_id = $1
		GROUP BY p.id, p.name
		ORDER BY quantity DESC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query session summary: %w", err)
	}
	defer rows.Close()

	var summary []model.ProductSummary
	for rows.Next() {
		var ps model.ProductSummary
		if err := rows.Scan(&ps.ProductID, &ps.Product, &ps.Quantity); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		summary = append(summary, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return summary, nil
}

// Counts returns the distinct order and customer counts for a session.
// Anonymous orders are told apart by phone number.
func (r *SessionRepo) Counts(ctx context.Context, sessionID int64) (orders, customers int64, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT customer_phone)
		FROM orders
		WHERE session_id = $1
	`, sessionID).Scan(&orders, &customers)
	if err != nil {
		return 0, 0, fmt.Errorf("query session counts: %w", err)
	}
	return orders, customers, nil
}
