package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type payoutFixture struct {
	tenantID    uuid.UUID
	brokerID    uuid.UUID
	commissions []*commission.CommissionRecord
	incentive   *commission.IncentiveRecord
}

// seedPayoutFixture stores two commissions and one incentive with fixed,
// increasing creation times: commission 1000, incentive 250, commission 500.
func seedPayoutFixture(t *testing.T, db *gorm.DB) payoutFixture {
	t.Helper()
	ctx := context.Background()
	records := NewGormRecordRepository(db)
	f := payoutFixture{tenantID: uuid.New(), brokerID: uuid.New()}
	base := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	for i, amount := range []string{"1000", "500"} {
		rec, err := commission.NewCommissionRecord(f.tenantID, f.brokerID, uuid.New(), uuid.New(), nil, &commission.Resolution{
			Amount: valueobject.MustMoney(amount, valueobject.TRY),
			Basis:  commission.Basis{ModelType: commission.ModelTypeFlatAmount, Value: decimal.RequireFromString(amount)},
		})
		require.NoError(t, err)
		rec.CreatedAt = base.Add(time.Duration(i*2) * time.Hour)
		require.NoError(t, records.CreateCommission(ctx, rec))
		f.commissions = append(f.commissions, rec)
	}

	inc, err := commission.NewIncentiveRecord(f.tenantID, f.brokerID, valueobject.MustMoney("250", valueobject.TRY), "Q1 bonus")
	require.NoError(t, err)
	inc.CreatedAt = base.Add(time.Hour)
	require.NoError(t, records.CreateIncentive(ctx, inc))
	f.incentive = inc
	return f
}

func TestGormEligibleItemRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormEligibleItemRepository(db)
	f := seedPayoutFixture(t, db)
	ctx := context.Background()

	t.Run("lists commissions and incentives oldest first", func(t *testing.T) {
		items, err := repo.ListEligible(ctx, f.tenantID, f.brokerID)
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, payout.ItemRef{Type: payout.ItemTypeCommission, ID: f.commissions[0].ID}, items[0].Ref)
		assert.Equal(t, payout.ItemRef{Type: payout.ItemTypeIncentive, ID: f.incentive.ID}, items[1].Ref)
		assert.Equal(t, int64(50000), items[2].Amount.Minor())
	})

	t.Run("finds selected refs and skips unknown ones", func(t *testing.T) {
		items, err := repo.FindEligible(ctx, f.tenantID, []payout.ItemRef{
			{Type: payout.ItemTypeIncentive, ID: f.incentive.ID},
			{Type: payout.ItemTypeCommission, ID: uuid.New()},
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, f.incentive.ID, items[0].Ref.ID)
	})

	t.Run("other tenant sees nothing", func(t *testing.T) {
		items, err := repo.ListEligible(ctx, uuid.New(), f.brokerID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestGormPaymentRepository_Settle(t *testing.T) {
	ctx := context.Background()

	t.Run("marks items paid and stores the payment", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedPayoutFixture(t, db)
		repo := NewGormPaymentRepository(db)
		items := NewGormEligibleItemRepository(db)

		eligible, err := items.ListEligible(ctx, f.tenantID, f.brokerID)
		require.NoError(t, err)
		record, err := payout.SettleManual(f.tenantID, f.brokerID, eligible[:2],
			payout.PaymentMeta{Method: payout.PaymentMethodBankTransfer, Reference: "TR-001"}, time.Now())
		require.NoError(t, err)

		require.NoError(t, repo.Settle(ctx, record))

		remaining, err := items.ListEligible(ctx, f.tenantID, f.brokerID)
		require.NoError(t, err)
		require.Len(t, remaining, 1)
		assert.Equal(t, f.commissions[1].ID, remaining[0].Ref.ID)

		var paid models.CommissionRecordModel
		require.NoError(t, db.First(&paid, "id = ?", f.commissions[0].ID).Error)
		assert.Equal(t, commission.RecordStatusPaid, paid.Status)
		require.NotNil(t, paid.PaymentID)
		assert.Equal(t, record.ID, *paid.PaymentID)
		assert.Equal(t, 2, paid.Version)

		stored, err := repo.FindByID(ctx, f.tenantID, record.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(125000), stored.Amount.Minor())
		assert.Equal(t, payout.PaymentSourceManual, stored.Source)
		assert.Equal(t, record.Items, stored.Items)
	})

	t.Run("stale item rolls back everything", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedPayoutFixture(t, db)
		repo := NewGormPaymentRepository(db)
		items := NewGormEligibleItemRepository(db)

		eligible, err := items.ListEligible(ctx, f.tenantID, f.brokerID)
		require.NoError(t, err)
		meta := payout.PaymentMeta{Method: payout.PaymentMethodCash}

		first, err := payout.SettleManual(f.tenantID, f.brokerID, eligible[2:], meta, time.Now())
		require.NoError(t, err)
		require.NoError(t, repo.Settle(ctx, first))

		second, err := payout.SettleManual(f.tenantID, f.brokerID, eligible, meta, time.Now())
		require.NoError(t, err)
		err = repo.Settle(ctx, second)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		remaining, err := items.ListEligible(ctx, f.tenantID, f.brokerID)
		require.NoError(t, err)
		assert.Len(t, remaining, 2, "items settled before the stale one must be rolled back")

		_, err = repo.FindByID(ctx, f.tenantID, second.ID)
		assert.True(t, shared.IsNotFoundError(err))
	})

	t.Run("lists broker payments", func(t *testing.T) {
		db := setupTestDB(t)
		f := seedPayoutFixture(t, db)
		repo := NewGormPaymentRepository(db)
		items := NewGormEligibleItemRepository(db)

		eligible, err := items.ListEligible(ctx, f.tenantID, f.brokerID)
		require.NoError(t, err)
		for _, item := range eligible {
			record, err := payout.SettleManual(f.tenantID, f.brokerID, []payout.EligibleItem{item},
				payout.PaymentMeta{Method: payout.PaymentMethodBankTransfer}, item.CreatedAt.Add(24*time.Hour))
			require.NoError(t, err)
			require.NoError(t, repo.Settle(ctx, record))
		}

		page, total, err := repo.ListByBroker(ctx, f.tenantID, f.brokerID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, page, 3)
		assert.Equal(t, int64(50000), page[0].Amount.Minor(), "newest payment first")
	})
}
