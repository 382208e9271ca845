package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading_backend/internal/feature/trading/domain/entity"
	"trading_backend/internal/feature/trading/usecase"
)

func TestNewUnitOfWork(t *testing.T) {
	db := setupTestDB(t)

	uow := NewUnitOfWork(db)

	assert.NotNil(t, uow, "unit of work is nil")
	assert.NotNil(t, uow.db, "database connection is nil")
}

func TestUnitOfWork_Commit(t *testing.T) {
	db := setupTestDB(t)
	share, broker := seedMarket(t, db)
	owner := seedShareholder(t, db, "alice")
	uow := NewUnitOfWork(db)

	err := uow.Do(context.Background(), func(l usecase.Ledger) error {
		s, err := l.Shares().FindByIDWithCompany(context.Background(), share.ID)
		if err != nil {
			return err
		}
		s.AvailableQuantity -= 10
		if err := l.Shares().Save(context.Background(), s); err != nil {
			return err
		}
		return l.Trades().Append(context.Background(), &entity.Trade{
			ID:            uuid.NewString(),
			ShareholderID: owner.ID,
			CompanyID:     share.CompanyID,
			BrokerID:      broker.ID,
			Quantity:      10,
			UnitPrice:     s.Price,
			Type:          entity.TradeTypeBuy,
			ExecutedAt:    time.Now(),
		})
	})

	require.NoError(t, err)

	reloaded, err := NewShareGorm(db).FindByIDWithCompany(context.Background(), share.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), reloaded.AvailableQuantity, "committed inventory change should be visible")

	trades, err := NewTradeGorm(db).ListByShareholder(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Len(t, trades, 1, "committed journal entry should be visible")
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	share, broker := seedMarket(t, db)
	owner := seedShareholder(t, db, "alice")
	uow := NewUnitOfWork(db)

	boom := errors.New("journal append rejected")
	err := uow.Do(context.Background(), func(l usecase.Ledger) error {
		s, err := l.Shares().FindByIDWithCompany(context.Background(), share.ID)
		if err != nil {
			return err
		}
		s.AvailableQuantity -= 10
		if err := l.Shares().Save(context.Background(), s); err != nil {
			return err
		}
		if err := l.Trades().Append(context.Background(), &entity.Trade{
			ID:            uuid.NewString(),
			ShareholderID: owner.ID,
			CompanyID:     share.CompanyID,
			BrokerID:      broker.ID,
			Quantity:      10,
			UnitPrice:     decimal.RequireFromString("100.00"),
			Type:          entity.TradeTypeBuy,
			ExecutedAt:    time.Now(),
		}); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom, "the failure should surface to the caller")

	reloaded, err := NewShareGorm(db).FindByIDWithCompany(context.Background(), share.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), reloaded.AvailableQuantity, "inventory must be restored on rollback")

	trades, err := NewTradeGorm(db).ListByShareholder(context.Background(), owner.ID)
	require.NoError(t, err)
	assert.Empty(t, trades, "journal append must be rolled back with the rest")
}

func TestUnitOfWork_RetriesOnConflict(t *testing.T) {
	t.Run("transient conflict is retried until it clears", func(t *testing.T) {
		db := setupTestDB(t)
		uow := NewUnitOfWork(db)

		attempts := 0
		err := uow.Do(context.Background(), func(l usecase.Ledger) error {
			attempts++
			if attempts < 3 {
				return usecase.ErrConcurrencyConflict
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, attempts, "work should be re-run from the top after each conflict")
	})

	t.Run("persistent conflict surfaces after exhausting retries", func(t *testing.T) {
		db := setupTestDB(t)
		uow := NewUnitOfWork(db)

		attempts := 0
		err := uow.Do(context.Background(), func(l usecase.Ledger) error {
			attempts++
			return usecase.ErrConcurrencyConflict
		})

		assert.ErrorIs(t, err, usecase.ErrConcurrencyConflict)
		assert.Equal(t, maxConflictRetries+1, attempts, "initial attempt plus all retries")
	})

	t.Run("non-conflict errors are not retried", func(t *testing.T) {
		db := setupTestDB(t)
		uow := NewUnitOfWork(db)

		attempts := 0
		err := uow.Do(context.Background(), func(l usecase.Ledger) error {
			attempts++
			return usecase.ErrInsufficientInventory
		})

		assert.ErrorIs(t, err, usecase.ErrInsufficientInventory)
		assert.Equal(t, 1, attempts)
	})
}
