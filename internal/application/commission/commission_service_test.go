package commission

import (
	"context"
	"testing"
	"time"

	"github.com/estate/backend/internal/domain/broker"
	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type earnFixture struct {
	svc      *Service
	brokers  *MockBrokerRepository
	models   *MockModelRepository
	records  *MockRecordRepository
	tenantID uuid.UUID
	broker   *broker.Broker
	model    *commission.CommissionModel
}

func newEarnFixture(t *testing.T, p commission.ModelParams) *earnFixture {
	t.Helper()
	f := &earnFixture{
		brokers:  new(MockBrokerRepository),
		models:   new(MockModelRepository),
		records:  new(MockRecordRepository),
		tenantID: uuid.New(),
	}
	f.svc = NewService(f.brokers, f.models, f.records, valueobject.TRY)
	f.svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	var err error
	f.broker, err = broker.NewBroker(f.tenantID, "Ayşe Yılmaz", "ayse@example.com", "")
	require.NoError(t, err)
	f.model, err = commission.NewCommissionModel(f.tenantID, p)
	require.NoError(t, err)

	f.brokers.On("FindByID", mock.Anything, f.tenantID, f.broker.ID).Return(f.broker, nil).Maybe()
	f.models.On("FindModel", mock.Anything, f.tenantID, f.model.ID).Return(f.model, nil).Maybe()
	f.models.On("FindTiers", mock.Anything, f.tenantID, f.model.ID).Return(f.model.Tiers, nil).Maybe()
	f.models.On("FindUnitRules", mock.Anything, f.tenantID, f.model.ID).Return(f.model.UnitRules, nil).Maybe()
	return f
}

func (f *earnFixture) event(saleID uuid.UUID) SaleEvent {
	return SaleEvent{
		BrokerID: f.broker.ID,
		SaleID:   saleID,
		ModelID:  f.model.ID,
		Amount:   dec("1000000"),
	}
}

func tiered(scope commission.CountScope, projectID *uuid.UUID) commission.ModelParams {
	return commission.ModelParams{
		Name:       "Volume",
		Type:       commission.ModelTypeTiered,
		BaseValue:  dec("1"),
		CountScope: scope,
		ProjectID:  projectID,
		Tiers: []commission.Tier{
			{MinUnits: 1, MaxUnits: intPtr(2), Value: dec("2")},
			{MinUnits: 3, Value: dec("3")},
		},
	}
}

func TestService_EarnForSale(t *testing.T) {
	projectID := uuid.New()
	f := newEarnFixture(t, tiered(commission.CountScopeProject, &projectID))
	saleID := uuid.New()

	notFound := shared.NewNotFoundError("commission_record", "not found")
	f.records.On("FindCommissionBySale", mock.Anything, f.tenantID, f.broker.ID, saleID).Return(nil, notFound)
	f.records.On("CountBrokerSales", mock.Anything, f.tenantID, f.broker.ID, &projectID).Return(int64(2), nil)
	f.records.On("CreateCommission", mock.Anything, mock.MatchedBy(func(r *commission.CommissionRecord) bool {
		return r.SaleID == saleID && r.ProjectID != nil && *r.ProjectID == projectID
	})).Return(nil).Once()

	resp, err := f.svc.EarnForSale(context.Background(), f.tenantID, f.event(saleID))
	require.NoError(t, err)
	// third sale in the project reaches the 3% tier
	assert.Equal(t, int64(3000000), resp.Amount.Minor())
	assert.Equal(t, "ELIGIBLE", resp.Status)
	require.NotNil(t, resp.Basis.TierID)
	assert.Equal(t, f.model.Tiers[1].ID, *resp.Basis.TierID)
	f.records.AssertExpectations(t)
}

func TestService_EarnForSale_TenantScope(t *testing.T) {
	f := newEarnFixture(t, tiered(commission.CountScopeTenant, nil))
	saleID := uuid.New()

	f.records.On("FindCommissionBySale", mock.Anything, f.tenantID, f.broker.ID, saleID).
		Return(nil, shared.NewNotFoundError("commission_record", "not found"))
	f.records.On("CountBrokerSales", mock.Anything, f.tenantID, f.broker.ID, (*uuid.UUID)(nil)).Return(int64(0), nil)
	f.records.On("CreateCommission", mock.Anything, mock.Anything).Return(nil)

	ev := f.event(saleID)
	other := uuid.New()
	ev.ProjectID = &other
	resp, err := f.svc.EarnForSale(context.Background(), f.tenantID, ev)
	require.NoError(t, err)
	assert.Equal(t, int64(2000000), resp.Amount.Minor())
	assert.Equal(t, &other, resp.ProjectID)
}

func TestService_EarnForSale_Rejections(t *testing.T) {
	projectID := uuid.New()

	t.Run("duplicate sale", func(t *testing.T) {
		f := newEarnFixture(t, tiered(commission.CountScopeProject, &projectID))
		saleID := uuid.New()
		f.records.On("FindCommissionBySale", mock.Anything, f.tenantID, f.broker.ID, saleID).
			Return(&commission.CommissionRecord{}, nil)

		_, err := f.svc.EarnForSale(context.Background(), f.tenantID, f.event(saleID))
		assert.True(t, shared.IsConflictError(err))
		f.records.AssertNotCalled(t, "CreateCommission", mock.Anything, mock.Anything)
	})

	t.Run("other project", func(t *testing.T) {
		f := newEarnFixture(t, tiered(commission.CountScopeProject, &projectID))
		ev := f.event(uuid.New())
		other := uuid.New()
		ev.ProjectID = &other

		_, err := f.svc.EarnForSale(context.Background(), f.tenantID, ev)
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("archived model", func(t *testing.T) {
		f := newEarnFixture(t, tiered(commission.CountScopeProject, &projectID))
		require.NoError(t, f.model.Archive())

		_, err := f.svc.EarnForSale(context.Background(), f.tenantID, f.event(uuid.New()))
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("sale outside window", func(t *testing.T) {
		p := tiered(commission.CountScopeProject, &projectID)
		end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
		p.ValidTo = &end
		f := newEarnFixture(t, p)

		_, err := f.svc.EarnForSale(context.Background(), f.tenantID, f.event(uuid.New()))
		assert.True(t, shared.IsValidationError(err))

		ev := f.event(uuid.New())
		soldAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		ev.SoldAt = &soldAt
		f.records.On("FindCommissionBySale", mock.Anything, f.tenantID, f.broker.ID, ev.SaleID).
			Return(nil, shared.NewNotFoundError("commission_record", "not found"))
		f.records.On("CountBrokerSales", mock.Anything, f.tenantID, f.broker.ID, &projectID).Return(int64(0), nil)
		f.records.On("CreateCommission", mock.Anything, mock.Anything).Return(nil)
		_, err = f.svc.EarnForSale(context.Background(), f.tenantID, ev)
		assert.NoError(t, err)
	})

	t.Run("inactive broker", func(t *testing.T) {
		f := newEarnFixture(t, tiered(commission.CountScopeProject, &projectID))
		f.broker.Deactivate()

		_, err := f.svc.EarnForSale(context.Background(), f.tenantID, f.event(uuid.New()))
		assert.Equal(t, shared.CodeInvalidState, shared.CodeOf(err))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		f := newEarnFixture(t, commission.ModelParams{
			Name: "Fixed", Type: commission.ModelTypeFlatAmount, BaseValue: dec("5000"), Currency: valueobject.TRY,
		})
		ev := f.event(uuid.New())
		ev.Currency = "USD"
		f.records.On("FindCommissionBySale", mock.Anything, f.tenantID, f.broker.ID, ev.SaleID).
			Return(nil, shared.NewNotFoundError("commission_record", "not found"))
		f.records.On("CountBrokerSales", mock.Anything, f.tenantID, f.broker.ID, (*uuid.UUID)(nil)).Return(int64(0), nil)

		_, err := f.svc.EarnForSale(context.Background(), f.tenantID, ev)
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestService_GrantIncentive(t *testing.T) {
	f := newEarnFixture(t, tiered(commission.CountScopeTenant, nil))
	f.records.On("CreateIncentive", mock.Anything, mock.MatchedBy(func(r *commission.IncentiveRecord) bool {
		return r.BrokerID == f.broker.ID && r.Amount.Minor() == 250000
	})).Return(nil).Once()

	resp, err := f.svc.GrantIncentive(context.Background(), f.tenantID, IncentiveRequest{
		BrokerID: f.broker.ID,
		Amount:   dec("2500"),
		Reason:   "Quarter target",
	})
	require.NoError(t, err)
	assert.Equal(t, "ELIGIBLE", resp.Status)
	assert.Equal(t, valueobject.TRY, resp.Amount.Currency())

	_, err = f.svc.GrantIncentive(context.Background(), f.tenantID, IncentiveRequest{
		BrokerID: f.broker.ID,
		Amount:   dec("0"),
		Reason:   "nothing",
	})
	assert.True(t, shared.IsValidationError(err))
}
