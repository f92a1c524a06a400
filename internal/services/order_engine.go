package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/honeynil/CommodityDeskService/internal/infrastructure/kafka"
	"github.com/honeynil/CommodityDeskService/internal/infrastructure/observability"
	"github.com/honeynil/CommodityDeskService/internal/models"
	"github.com/honeynil/CommodityDeskService/internal/repository"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type PlaceOrderRequest struct {
	UserID      int64
	CommodityID int64
	Type        models.OrderType
	Quantity    int64
}

// OrderEngine runs the PENDING -> APPROVED | REJECTED state machine.
type OrderEngine struct {
	orders    repository.OrderRepository
	users     repository.UserRepository
	pricing   *PricingStore
	ledger    *Ledger
	hierarchy *RoleHierarchy
	tx        repository.TxManager
	events    kafka.EventPublisher
}

func NewOrderEngine(
	orders repository.OrderRepository,
	users repository.UserRepository,
	pricing *PricingStore,
	ledger *Ledger,
	hierarchy *RoleHierarchy,
	tx repository.TxManager,
	events kafka.EventPublisher,
) *OrderEngine {
	return &OrderEngine{
		orders:    orders,
		users:     users,
		pricing:   pricing,
		ledger:    ledger,
		hierarchy: hierarchy,
		tx:        tx,
		events:    events,
	}
}

// PlaceOrder freezes the current commodity price into a new PENDING order. The wallet is
// not touched until the order is approved.
func (e *OrderEngine) PlaceOrder(ctx context.Context, actor models.Identity, req PlaceOrderRequest) (*models.Order, error) {
	ctx, span := startSpan(ctx, "PlaceOrder")
	defer span.End()

	if req.UserID == 0 {
		req.UserID = actor.UserID
	}
	span.SetAttributes(
		attribute.Int64("user_id", req.UserID),
		attribute.Int64("commodity_id", req.CommodityID),
		attribute.Int64("quantity", req.Quantity),
	)

	if !e.hierarchy.CanPlaceOrder(actor, req.UserID) {
		slog.Warn("order placement denied", "method", "PlaceOrder", "actor_id", actor.UserID, "user_id", req.UserID)
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}
	if req.Quantity <= 0 {
		return nil, fail(span, pkgerrors.ErrInvalidQuantity, "invalid quantity")
	}
	if _, ok := models.ParseOrderType(string(req.Type)); !ok {
		return nil, fail(span, pkgerrors.ErrInvalidOrderType, "invalid order type")
	}

	commodity, err := e.pricing.GetPrice(ctx, req.CommodityID)
	if err != nil {
		return nil, fail(span, err, "commodity lookup failed")
	}
	user, err := e.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fail(span, err, "user lookup failed")
	}
	if !user.IsActive() {
		slog.Warn("inactive user tried to place order", "method", "PlaceOrder", "user_id", user.ID)
		return nil, fail(span, pkgerrors.ErrUserInactive, "user inactive")
	}

	order := &models.Order{
		UserID:       user.ID,
		CommodityID:  commodity.ID,
		Type:         req.Type,
		Quantity:     req.Quantity,
		PricePerUnit: commodity.CurrentPrice,
		TotalAmount:  commodity.CurrentPrice.Mul(decimal.NewFromInt(req.Quantity)),
		Status:       models.OrderPending,
	}
	if err := e.orders.Create(ctx, order); err != nil {
		slog.Error("failed to create order", "method", "PlaceOrder", "user_id", user.ID, "error", err)
		return nil, fail(span, err, "order creation failed")
	}

	observability.OrdersPlaced.WithLabelValues(string(order.Type)).Inc()
	slog.Info("order placed", "method", "PlaceOrder", "order_id", order.ID, "user_id", user.ID,
		"commodity_id", commodity.ID, "type", order.Type, "quantity", order.Quantity, "total", order.TotalAmount.String())

	publish(ctx, e.events, kafka.TopicOrders, order.ID, kafka.EventOrderPlaced, kafka.OrderPlaced{
		OrderID:     order.ID,
		UserID:      user.ID,
		Username:    user.Username,
		CommodityID: commodity.ID,
		Commodity:   commodity.Name,
		Type:        string(order.Type),
		Quantity:    order.Quantity,
		TotalAmount: order.TotalAmount,
	})
	return order, nil
}

// ProcessOrder moves a PENDING order to decision. On approval the settlement delta and the
// status change commit together or not at all.
func (e *OrderEngine) ProcessOrder(ctx context.Context, actor models.Identity, orderID int64, decision models.OrderStatus) (order *models.Order, err error) {
	ctx, span := startSpan(ctx, "ProcessOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order_id", orderID), attribute.String("decision", string(decision)))

	defer func() {
		observability.OrdersProcessed.WithLabelValues(string(decision), observability.ResultLabel(err)).Inc()
	}()

	if !decision.IsTerminal() {
		return nil, fail(span, pkgerrors.ErrInvalidDecision, "invalid decision")
	}

	var balance decimal.Decimal
	err = e.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		o, err := e.orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o.Status != models.OrderPending {
			return pkgerrors.ErrOrderAlreadyProcessed
		}
		allowed, err := e.hierarchy.CanProcessOrder(ctx, actor, o)
		if err != nil {
			return err
		}
		if !allowed {
			return pkgerrors.ErrUnauthorized
		}

		if decision == models.OrderApproved {
			remarks := fmt.Sprintf("Settlement of %s order #%d", o.Type, o.ID)
			if balance, err = e.ledger.ApplyDelta(ctx, o.UserID, o.SettlementDelta(), remarks); err != nil {
				return err
			}
		}

		if err := e.orders.MarkProcessed(ctx, o, decision, actor.UserID); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		switch {
		case stderrors.Is(err, pkgerrors.ErrOrderAlreadyProcessed),
			stderrors.Is(err, pkgerrors.ErrInsufficientFunds),
			stderrors.Is(err, pkgerrors.ErrUnauthorized),
			stderrors.Is(err, pkgerrors.ErrUserInactive):
			slog.Warn("order not processed", "method", "ProcessOrder", "order_id", orderID, "actor_id", actor.UserID, "reason", err)
		default:
			slog.Error("failed to process order", "method", "ProcessOrder", "order_id", orderID, "error", err)
		}
		return nil, fail(span, err, "order processing failed")
	}

	slog.Info("order processed", "method", "ProcessOrder", "order_id", order.ID, "status", order.Status, "processed_by", actor.UserID)
	publish(ctx, e.events, kafka.TopicOrders, order.ID, kafka.EventOrderProcessed, kafka.OrderProcessed{
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      string(order.Status),
		ProcessedBy: actor.UserID,
	})
	if decision == models.OrderApproved {
		publish(ctx, e.events, kafka.TopicWallets, order.UserID, kafka.EventWalletUpdated, kafka.WalletUpdated{
			UserID:       order.UserID,
			ChangeAmount: order.SettlementDelta(),
			BalanceAfter: balance,
			Remarks:      fmt.Sprintf("Settlement of %s order #%d", order.Type, order.ID),
		})
	}
	return order, nil
}

// ListOrders returns the orders actor may see, newest first.
func (e *OrderEngine) ListOrders(ctx context.Context, actor models.Identity) ([]models.Order, error) {
	ctx, span := startSpan(ctx, "ListOrders")
	defer span.End()

	owners, err := e.hierarchy.VisibleOrderOwners(ctx, actor)
	if err != nil {
		return nil, fail(span, err, "scope lookup failed")
	}
	orders, err := e.orders.List(ctx, owners)
	if err != nil {
		return nil, fail(span, err, "order list failed")
	}
	return orders, nil
}

func (e *OrderEngine) GetOrder(ctx context.Context, actor models.Identity, orderID int64) (*models.Order, error) {
	ctx, span := startSpan(ctx, "GetOrder")
	defer span.End()
	span.SetAttributes(attribute.Int64("order_id", orderID))

	order, err := e.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, fail(span, err, "order lookup failed")
	}
	visible, err := e.hierarchy.CanViewOrder(ctx, actor, order)
	if err != nil {
		return nil, fail(span, err, "visibility check failed")
	}
	if !visible {
		return nil, fail(span, pkgerrors.ErrUnauthorized, "not allowed")
	}
	return order, nil
}
