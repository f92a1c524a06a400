package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel/attribute"
)

const orderTracer = "order-repository"

const orderColumns = `id, user_id, commodity_id, type, quantity, price_per_unit, total_amount, status, created_at, processed_at, processed_by`

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o           models.Order
		processedAt sql.NullTime
		processedBy sql.NullInt64
	)
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.CommodityID,
		&o.Type,
		&o.Quantity,
		&o.PricePerUnit,
		&o.TotalAmount,
		&o.Status,
		&o.CreatedAt,
		&processedAt,
		&processedBy,
	)
	if err != nil {
		return nil, err
	}
	if processedAt.Valid {
		t := processedAt.Time
		o.ProcessedAt = &t
	}
	if processedBy.Valid {
		id := processedBy.Int64
		o.ProcessedBy = &id
	}
	return &o, nil
}

func (r *PostgresOrderRepository) Create(ctx context.Context, o *models.Order) (err error) {
	ctx, done := track(ctx, orderTracer, "CreateOrder")
	defer done(&err)

	if o == nil {
		err = pkgerrors.ErrNilOrder
		slog.Error("failed to create order", "method", "Create", "error", err)
		return err
	}
	if o.Type != models.OrderBuy && o.Type != models.OrderSell {
		err = pkgerrors.ErrInvalidOrderType
		slog.Error("invalid order type", "method", "Create", "type", o.Type, "error", err)
		return err
	}
	if o.Quantity <= 0 {
		err = pkgerrors.ErrInvalidQuantity
		slog.Error("invalid quantity", "method", "Create", "quantity", o.Quantity, "error", err)
		return err
	}

	query := `
	INSERT INTO orders (user_id, commodity_id, type, quantity, price_per_unit, total_amount, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at
	`
	err = conn(ctx, r.db).QueryRowContext(ctx, query,
		o.UserID, o.CommodityID, o.Type, o.Quantity, o.PricePerUnit, o.TotalAmount, o.Status,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		slog.Error("failed to create order", "method", "Create", "user_id", o.UserID, "commodity_id", o.CommodityID, "error", err)
		return fmt.Errorf("failed to create order: %w", err)
	}

	slog.Info("order created", "method", "Create", "order_id", o.ID, "user_id", o.UserID, "type", o.Type, "total_amount", o.TotalAmount.String())
	return nil
}

func (r *PostgresOrderRepository) get(ctx context.Context, method, query string, id int64) (o *models.Order, err error) {
	ctx, done := track(ctx, orderTracer, method, attribute.Int64("order_id", id))
	defer done(&err)

	o, err = scanOrder(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrOrderNotFound
		return nil, err
	}
	if err != nil {
		slog.Error("failed to get order", "method", method, "order_id", id, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return o, nil
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return r.get(ctx, "GetOrderByID", `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *PostgresOrderRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Order, error) {
	return r.get(ctx, "GetOrderByIDForUpdate", `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresOrderRepository) List(ctx context.Context, userIDs []int64) (orders []models.Order, err error) {
	ctx, done := track(ctx, orderTracer, "ListOrders")
	defer done(&err)

	orders = []models.Order{}
	if userIDs != nil && len(userIDs) == 0 {
		return orders, nil
	}

	var rows *sql.Rows
	if userIDs == nil {
		rows, err = conn(ctx, r.db).QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`)
	} else {
		rows, err = conn(ctx, r.db).QueryContext(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE user_id = ANY($1) ORDER BY created_at DESC, id DESC`,
			pq.Array(userIDs))
	}
	if err != nil {
		slog.Error("failed to list orders", "method", "List", "error", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		o, scanErr := scanOrder(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan order: %w", scanErr)
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *PostgresOrderRepository) MarkProcessed(ctx context.Context, o *models.Order, status models.OrderStatus, processorID int64) (err error) {
	ctx, done := track(ctx, orderTracer, "MarkOrderProcessed",
		attribute.Int64("order_id", o.ID),
		attribute.String("status", string(status)),
	)
	defer done(&err)

	if !status.IsTerminal() {
		err = pkgerrors.ErrInvalidDecision
		return err
	}

	query := `
		UPDATE orders
		SET status = $1, processed_at = NOW(), processed_by = $2
		WHERE id = $3 AND status = 'PENDING'
		RETURNING processed_at
		`
	var processedAt sql.NullTime
	err = conn(ctx, r.db).QueryRowContext(ctx, query, status, processorID, o.ID).Scan(&processedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrOrderAlreadyProcessed
		slog.Warn("order already processed", "method", "MarkProcessed", "order_id", o.ID)
		return err
	}
	if err != nil {
		slog.Error("failed to mark order processed", "method", "MarkProcessed", "order_id", o.ID, "error", err)
		return fmt.Errorf("failed to mark order processed: %w", err)
	}

	o.Status = status
	o.ProcessedAt = &processedAt.Time
	o.ProcessedBy = &processorID
	slog.Info("order processed", "method", "MarkProcessed", "order_id", o.ID, "status", status, "processed_by", processorID)
	return nil
}
