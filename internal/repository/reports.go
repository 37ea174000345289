package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"lakshmikitchen/internal/model"
)

type ReportRepo struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

func NewReportRepo(db *sql.DB) *ReportRepo {
	return &ReportRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *ReportRepo) productTotals() sq.SelectBuilder {
	return r.sb.
		Select("p.id", "p.name AS product", "SUM(i.quantity) AS quantity").
		From("orders o").
		Join("order_items i ON i.order_id = o.id").
		Join("products p ON p.id = i.product_id").
		GroupBy("p.id", "p.name").
		OrderBy("quantity DESC")
}

// ProductTotalsToday aggregates per-product quantities for today's orders.
func (r *ReportRepo) ProductTotalsToday(ctx context.Context) ([]model.ProductSummary, error) {
	query := r.productTotals().Where(sq.Expr("o.created_at::date = CURRENT_DATE"))
	return r.runSummary(ctx, query)
}

// ProductTotalsRange aggregates per-product quantities for orders placed
// between the two dates, inclusive.
func (r *ReportRepo) ProductTotalsRange(ctx context.Context, from, to time.Time) ([]model.ProductSummary, error) {
	query := r.productTotals().Where(sq.Expr("o.created_at::date BETWEEN ? AND ?", from, to))
	return r.runSummary(ctx, query)
}

func (r *ReportRepo) runSummary(ctx context.Context, query sq.SelectBuilder) ([]model.ProductSummary, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build report query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query report: %w", err)
	}
	defer rows.Close()

	var summary []model.ProductSummary
	for rows.Next() {
		var ps model.ProductSummary
		if err := rows.Scan(&ps.ProductID, &ps.Product, &ps.Quantity); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		summary = append(summary, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return summary, nil
}
