package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

const commodityTracer = "commodity-repository"

const commodityColumns = `id, name, unit, current_price, previous_price, last_updated`

type PostgresCommodityRepository struct {
	db *sql.DB
}

func NewPostgresCommodityRepository(db *sql.DB) *PostgresCommodityRepository {
	return &PostgresCommodityRepository{db: db}
}

func scanCommodity(row rowScanner) (*models.Commodity, error) {
	var c models.Commodity
	if err := row.Scan(&c.ID, &c.Name, &c.Unit, &c.CurrentPrice, &c.PreviousPrice, &c.LastUpdated); err != nil {
		return nil, err
	}
	c.DeriveChange()
	return &c, nil
}

func (r *PostgresCommodityRepository) Create(ctx context.Context, c *models.Commodity) (err error) {
	ctx, done := track(ctx, commodityTracer, "CreateCommodity")
	defer done(&err)

	if !c.CurrentPrice.IsPositive() {
		err = pkgerrors.ErrInvalidPrice
		return err
	}

	query := `
	INSERT INTO commodities (name, unit, current_price, previous_price)
	VALUES ($1, $2, $3, $4)
	RETURNING id, last_updated
	`
	err = conn(ctx, r.db).QueryRowContext(ctx, query, c.Name, c.Unit, c.CurrentPrice, c.PreviousPrice).Scan(&c.ID, &c.LastUpdated)
	if err != nil {
		slog.Error("failed to create commodity", "method", "Create", "name", c.Name, "error", err)
		return fmt.Errorf("failed to create commodity: %w", err)
	}
	c.DeriveChange()

	slog.Info("commodity created", "method", "Create", "commodity_id", c.ID, "name", c.Name)
	return nil
}

func (r *PostgresCommodityRepository) GetByID(ctx context.Context, id int64) (c *models.Commodity, err error) {
	ctx, done := track(ctx, commodityTracer, "GetCommodityByID", attribute.Int64("commodity_id", id))
	defer done(&err)

	query := `SELECT ` + commodityColumns + ` FROM commodities WHERE id = $1`
	c, err = scanCommodity(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrCommodityNotFound
		return nil, err
	}
	if err != nil {
		slog.Error("failed to get commodity", "method", "GetByID", "commodity_id", id, "error", err)
		return nil, fmt.Errorf("failed to get commodity: %w", err)
	}
	return c, nil
}

func (r *PostgresCommodityRepository) List(ctx context.Context) (list []models.Commodity, err error) {
	ctx, done := track(ctx, commodityTracer, "ListCommodities")
	defer done(&err)

	query := `SELECT ` + commodityColumns + ` FROM commodities ORDER BY id`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		slog.Error("failed to list commodities", "method", "List", "error", err)
		return nil, fmt.Errorf("failed to list commodities: %w", err)
	}
	defer rows.Close()

	list = []models.Commodity{}
	for rows.Next() {
		c, scanErr := scanCommodity(rows)
		if scanErr != nil {
			err = fmt.Errorf("failed to scan commodity: %w", scanErr)
			return nil, err
		}
		list = append(list, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list commodities: %w", err)
	}
	return list, nil
}

func (r *PostgresCommodityRepository) Count(ctx context.Context) (count int64, err error) {
	ctx, done := track(ctx, commodityTracer, "CountCommodities")
	defer done(&err)

	if err = conn(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM commodities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count commodities: %w", err)
	}
	return count, nil
}

func (r *PostgresCommodityRepository) UpdatePrice(ctx context.Context, id int64, newPrice decimal.Decimal) (c *models.Commodity, err error) {
	ctx, done := track(ctx, commodityTracer, "UpdateCommodityPrice",
		attribute.Int64("commodity_id", id),
		attribute.String("price", newPrice.String()),
	)
	defer done(&err)

	if !newPrice.IsPositive() {
		err = pkgerrors.ErrInvalidPrice
		return nil, err
	}

	// SET expressions read the pre-update row, so previous_price receives the old current_price.
	query := `
		UPDATE commodities
		SET previous_price = current_price, current_price = $1, last_updated = NOW()
		WHERE id = $2
		RETURNING ` + commodityColumns
	c, err = scanCommodity(conn(ctx, r.db).QueryRowContext(ctx, query, newPrice, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		err = pkgerrors.ErrCommodityNotFound
		return nil, err
	}
	if err != nil {
		slog.Error("failed to update commodity price", "method", "UpdatePrice", "commodity_id", id, "error", err)
		return nil, fmt.Errorf("failed to update commodity price: %w", err)
	}

	slog.Info("commodity price updated", "method", "UpdatePrice", "commodity_id", id,
		"previous_price", c.PreviousPrice.String(), "current_price", c.CurrentPrice.String())
	return c, nil
}
