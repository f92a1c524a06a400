package service

import (
	"context"
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

// Ledger owns wallet balances. ApplyDelta is the only path that changes one.
type Ledger struct {
	users     repository.UserRepository
	logs      repository.WalletLogRepository
	tx        repository.TxManager
	hierarchy *RoleHierarchy
	events    kafka.EventPublisher
}

func NewLedger(users repository.UserRepository, logs repository.WalletLogRepository, tx repository.TxManager, hierarchy *RoleHierarchy, events kafka.EventPublisher) *Ledger {
	return &Ledger{
		users:     users,
		logs:      logs,
		tx:        tx,
		hierarchy: hierarchy,
		events:    events,
	}
}

func (l *Ledger) GetBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	ctx, span := startSpan(ctx, "GetBalance")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID))

	balance, err := l.users.GetBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, fail(span, err, "balance lookup failed")
	}
	return balance, nil
}

// ApplyDelta adds delta to the balance of userID and records a wallet log entry in the
// same unit of work. It joins the caller's unit of work when there is one. It fails with
// ErrInsufficientFunds, leaving everything untouched, when the balance would go negative.
func (l *Ledger) ApplyDelta(ctx context.Context, userID int64, delta decimal.Decimal, remarks string) (balance decimal.Decimal, err error) {
	ctx, span := startSpan(ctx, "ApplyDelta")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("delta", delta.String()))

	direction := "credit"
	entry := models.EntryCredit
	if delta.IsNegative() {
		direction = "debit"
		entry = models.EntryDebit
	}
	defer func() {
		observability.LedgerDeltas.WithLabelValues(direction, observability.ResultLabel(err)).Inc()
	}()

	if delta.IsZero() {
		return decimal.Zero, fail(span, pkgerrors.ErrInvalidAmount, "zero delta")
	}
	if !models.FitsMoneyScale(delta) {
		return decimal.Zero, fail(span, pkgerrors.ErrTooManyDecimals, "delta too precise")
	}

	err = l.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		newBalance, err := l.users.ChangeBalance(ctx, userID, delta)
		if err != nil {
			return err
		}
		if err := l.logs.Create(ctx, &models.WalletLog{
			UserID:       userID,
			ChangeAmount: delta,
			EntryType:    entry,
			BalanceAfter: newBalance,
			Remarks:      remarks,
		}); err != nil {
			return fmt.Errorf("failed to record wallet log: %w", err)
		}
		balance = newBalance
		return nil
	})
	if err != nil {
		return decimal.Zero, fail(span, err, "balance change failed")
	}
	return balance, nil
}

// Adjust is the staff-initiated wallet change.
func (l *Ledger) Adjust(ctx context.Context, actor models.Identity, userID int64, amount decimal.Decimal, op models.WalletOperation) (decimal.Decimal, error) {
	ctx, span := startSpan(ctx, "AdjustWallet")
	defer span.End()
	span.SetAttributes(attribute.Int64("user_id", userID), attribute.String("operation", string(op)))

	if _, err := l.hierarchy.ManagedUser(ctx, actor, userID); err != nil {
		slog.Warn("wallet adjustment denied", "method", "Adjust", "actor_id", actor.UserID, "user_id", userID, "error", err)
		return decimal.Zero, fail(span, err, "not allowed")
	}
	if !amount.IsPositive() {
		return decimal.Zero, fail(span, pkgerrors.ErrInvalidAmount, "invalid amount")
	}

	var delta decimal.Decimal
	switch op {
	case models.OperationAdd:
		delta = amount
	case models.OperationSubtract:
		delta = amount.Neg()
	default:
		return decimal.Zero, fail(span, pkgerrors.ErrInvalidOperation, "invalid operation")
	}

	remarks := fmt.Sprintf("%s by %s #%d", op, actor.Role, actor.UserID)
	balance, err := l.ApplyDelta(ctx, userID, delta, remarks)
	if err != nil {
		slog.Warn("wallet adjustment failed", "method", "Adjust", "user_id", userID, "delta", delta.String(), "error", err)
		return decimal.Zero, err
	}

	slog.Info("wallet adjusted", "method", "Adjust", "user_id", userID, "delta", delta.String(), "balance", balance.String(), "actor_id", actor.UserID)
	publish(ctx, l.events, kafka.TopicWallets, userID, kafka.EventWalletUpdated, kafka.WalletUpdated{
		UserID:       userID,
		ChangeAmount: delta,
		BalanceAfter: balance,
		Remarks:      remarks,
	})
	return balance, nil
}

// Balance returns a wallet balance to its owner or to a staff member managing the owner.
func (l *Ledger) Balance(ctx context.Context, actor models.Identity, userID int64) (decimal.Decimal, error) {
	if err := l.authorizeRead(ctx, actor, userID); err != nil {
		return decimal.Zero, err
	}
	return l.GetBalance(ctx, userID)
}

func (l *Ledger) Logs(ctx context.Context, actor models.Identity, userID int64) ([]models.WalletLog, error) {
	ctx, span := startSpan(ctx, "WalletLogs")
	defer span.End()

	if err := l.authorizeRead(ctx, actor, userID); err != nil {
		return nil, fail(span, err, "not allowed")
	}
	logs, err := l.logs.ListByUser(ctx, userID)
	if err != nil {
		return nil, fail(span, err, "wallet log lookup failed")
	}
	return logs, nil
}

func (l *Ledger) authorizeRead(ctx context.Context, actor models.Identity, userID int64) error {
	if actor.UserID == userID {
		return nil
	}
	_, err := l.hierarchy.ManagedUser(ctx, actor, userID)
	return err
}
