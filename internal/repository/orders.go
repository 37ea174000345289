package repository

import (
	"context"
	"database/sql"
	"fmt"

	"lakshmikitchen/internal/model"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateWithItems persists the order and its line items in one transaction.
// The session tag is resolved by the insert statement itself, so the order
// observes the active session at the instant of insertion; a pre-read in the
// caller would race a concurrent stop sweep. Items keep the unit price the
// caller supplied at order time.
func (r *OrderRepo) CreateWithItems(ctx context.Context, o *model.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			customer_name, customer_phone, customer_address,
			payment_method, payment_status, total_price,
			customer_id, upi_id, session_id, is_current_order
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''),
			(SELECT id FROM order_management_sessions WHERE status = 'active'),
			EXISTS (SELECT 1 FROM order_management_sessions WHERE status = 'active'))
		RETURNING id, session_id, is_current_order, created_at
	`, o.CustomerName, o.CustomerPhone, o.CustomerAddress,
		o.PaymentMethod, o.PaymentStatus, o.TotalPrice,
		o.CustomerID, o.UPIID)

	var sessionID sql.NullInt64
	if err := row.Scan(&o.ID, &sessionID, &o.IsCurrent, &o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	o.SessionID = nil
	if sessionID.Valid {
		o.SessionID = &sessionID.Int64
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price_at_time)
			VALUES ($1, $2, $3, $4)
		`, o.ID, o.Items[i].ProductID, o.Items[i].Quantity, o.Items[i].PriceAtTime)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *OrderRepo) SetGatewayReference(ctx context.Context, orderID int64, ref string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE orders SET gateway_reference = $1 WHERE id = $2`, ref, orderID)
	if err != nil {
		return fmt.Errorf("set gateway reference: %w", err)
	}
	return nil
}

func (r *OrderRepo) Exists(ctx context.Context, orderID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, orderID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check order: %w", err)
	}
	return exists, nil
}

// UpdatePaymentStatus transitions payment_status from one value to another
// in a single statement, reporting whether a row changed. The guard makes
// the transition atomic with respect to concurrent updates.
func (r *OrderRepo) UpdatePaymentStatus(ctx context.Context, orderID int64, from, to model.PaymentStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $1 WHERE id = $2 AND payment_status = $3`,
		to, orderID, from)
	if err != nil {
		return false, fmt.Errorf("update payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ByGatewayReference returns the order carrying a gateway reference, or nil.
func (r *OrderRepo) ByGatewayReference(ctx context.Context, ref string) (*model.Order, error) {
	rows, err := r.queryOrders(ctx, `WHERE o.gateway_reference = $1`, ref)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// ListByCustomer returns the customer's orders with items, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return r.queryOrders(ctx, `WHERE o.customer_id = $1`, customerID)
}

// ListUnreconciled returns gateway orders still pending with no recorded
// charge reference: the partial-failure state left behind when charge
// creation failed after the order row committed.
func (r *OrderRepo) ListUnreconciled(ctx context.Context) ([]model.Order, error) {
	return r.queryOrders(ctx, `
		WHERE o.payment_method = $1
		  AND o.payment_status = $2
		  AND (o.gateway_reference IS NULL OR o.gateway_reference = '')
	`, model.PaymentGatewayOnline, model.PaymentPending)
}

// ListForSession returns the session's orders with items, newest first.
func (r *OrderRepo) ListForSession(ctx context.Context, sessionID int64) ([]model.Order, error) {
	return r.queryOrders(ctx, `WHERE o.session_id = $1`, sessionID)
}

func (r *OrderRepo) queryOrders(ctx context.Context, where string, args ...any) ([]model.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_name, o.customer_phone, o.customer_address,
		       o.payment_method, o.payment_status, o.total_price,
		       o.customer_id, COALESCE(o.upi_id, ''), o.session_id, o.is_current_order,
		       COALESCE(o.gateway_reference, ''), o.created_at,
		       i.product_id, i.quantity, i.price_at_time
		FROM orders o
		LEFT JOIN order_items i ON i.order_id = o.id
		`+where+`
		ORDER BY o.created_at DESC, o.id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var (
		orders []model.Order
		last   *model.Order
	)
	for rows.Next() {
		var (
			o           model.Order
			productID   sql.NullInt64
			quantity    sql.NullInt64
			priceAtTime sql.NullFloat64
		)
		err := rows.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress,
			&o.PaymentMethod, &o.PaymentStatus, &o.TotalPrice,
			&o.CustomerID, &o.UPIID, &o.SessionID, &o.IsCurrent,
			&o.GatewayReference, &o.CreatedAt,
			&productID, &quantity, &priceAtTime)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}

		if last == nil || last.ID != o.ID {
			orders = append(orders, o)
			last = &orders[len(orders)-1]
		}
		if productID.Valid {
			last.Items = append(last.Items, model.OrderItem{
				OrderID:     last.ID,
				ProductID:   productID.Int64,
				Quantity:    int(quantity.Int64),
				PriceAtTime: priceAtTime.Float64,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return orders, nil
}
