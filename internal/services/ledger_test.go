package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/honeynil/CommodityDeskService/internal/models"
	pkgerrors "github.com/honeynil/CommodityDeskService/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_Adjust(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		balance, err := f.ledger.Adjust(ctx, identity(f.admin), f.alice.ID, dec("25.50"), models.OperationAdd)
		require.NoError(t, err)
		assert.True(t, balance.Equal(dec("525.50")))
	})

	t.Run("Subtract", func(t *testing.T) {
		balance, err := f.ledger.Adjust(ctx, identity(f.super), f.alice.ID, dec("0.50"), models.OperationSubtract)
		require.NoError(t, err)
		assert.True(t, balance.Equal(dec("525")))
	})

	t.Run("SubtractBelowZero", func(t *testing.T) {
		_, err := f.ledger.Adjust(ctx, identity(f.admin), f.bob.ID, dec("50.01"), models.OperationSubtract)
		assert.ErrorIs(t, err, pkgerrors.ErrInsufficientFunds)
		assert.True(t, f.balance(t, f.bob).Equal(dec("50")))
	})

	t.Run("NonPositiveAmount", func(t *testing.T) {
		_, err := f.ledger.Adjust(ctx, identity(f.admin), f.alice.ID, dec("0"), models.OperationAdd)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidAmount)
		_, err = f.ledger.Adjust(ctx, identity(f.admin), f.alice.ID, dec("-5"), models.OperationAdd)
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidAmount)
	})

	t.Run("UnknownOperation", func(t *testing.T) {
		_, err := f.ledger.Adjust(ctx, identity(f.admin), f.alice.ID, dec("1"), "MULTIPLY")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidOperation)
	})

	t.Run("ForeignAdmin", func(t *testing.T) {
		_, err := f.ledger.Adjust(ctx, identity(f.otherAdmin), f.alice.ID, dec("1"), models.OperationAdd)
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("UserOnSelf", func(t *testing.T) {
		_, err := f.ledger.Adjust(ctx, identity(f.alice), f.alice.ID, dec("1"), models.OperationAdd)
		assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := f.ledger.Adjust(ctx, identity(f.super), 9999, dec("1"), models.OperationAdd)
		assert.ErrorIs(t, err, pkgerrors.ErrUserNotFound)
	})

	logs, err := f.ledger.Logs(ctx, identity(f.admin), f.alice.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.EntryDebit, logs[0].EntryType)
	assert.Equal(t, models.EntryCredit, logs[1].EntryType)
	assert.True(t, logs[1].BalanceAfter.Equal(dec("525.50")))
}

func TestLedger_ReadAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Balance(ctx, identity(f.alice), f.alice.ID)
	assert.NoError(t, err)
	_, err = f.ledger.Balance(ctx, identity(f.admin), f.alice.ID)
	assert.NoError(t, err)
	_, err = f.ledger.Balance(ctx, identity(f.alice), f.bob.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
	_, err = f.ledger.Logs(ctx, identity(f.otherAdmin), f.alice.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
}

func TestLedger_ApplyDelta(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("ZeroDelta", func(t *testing.T) {
		_, err := f.ledger.ApplyDelta(ctx, f.alice.ID, dec("0"), "noop")
		assert.ErrorIs(t, err, pkgerrors.ErrInvalidAmount)
	})

	t.Run("ConcurrentDebitsNeverOverdraw", func(t *testing.T) {
		const workers = 60
		var (
			wg sync.WaitGroup
			mu sync.Mutex
			ok int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.ledger.ApplyDelta(ctx, f.alice.ID, dec("-10"), "load")
				if err == nil {
					mu.Lock()
					ok++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 50, ok)
		assert.True(t, f.balance(t, f.alice).IsZero())

		logs, err := f.ledger.Logs(ctx, identity(f.alice), f.alice.ID)
		require.NoError(t, err)
		assert.Len(t, logs, 50)
	})
}

func TestLedger_RejectsExcessPrecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.Adjust(ctx, identity(f.admin), f.alice.ID, dec("0.00001"), models.OperationAdd)
	assert.ErrorIs(t, err, pkgerrors.ErrTooManyDecimals)
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidInput)

	_, err = f.ledger.ApplyDelta(ctx, f.alice.ID, dec("-1.123456789"), "test")
	assert.ErrorIs(t, err, pkgerrors.ErrTooManyDecimals)
	assert.True(t, f.balance(t, f.alice).Equal(dec("500")))

	balance, err := f.ledger.Adjust(ctx, identity(f.admin), f.alice.ID, dec("0.1234"), models.OperationAdd)
	require.NoError(t, err)
	assert.True(t, balance.Equal(dec("500.1234")))
}
