package schedule

import (
	"context"
	"testing"

	"github.com/estate/backend/internal/domain/schedule"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) (*schedule.PaymentPlan, error) {
	args := m.Called(ctx, tenantID, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.PaymentPlan), args.Error(1)
}

func (m *MockPlanRepository) Replace(ctx context.Context, plan *schedule.PaymentPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func baseRequest() ScheduleRequest {
	return ScheduleRequest{
		Principal:           dec("15000"),
		DownPayment:         dec("3000"),
		MonthlyInterestRate: dec("1.5"),
		InstallmentCount:    12,
		StartDate:           "2025-01-31",
	}
}

func TestScheduleRequest_ToDomain(t *testing.T) {
	t.Run("defaults currency", func(t *testing.T) {
		req, err := baseRequest().ToDomain(valueobject.TRY)
		require.NoError(t, err)
		assert.Equal(t, valueobject.TRY, req.Currency)
		assert.Equal(t, int64(1500000), req.Principal.Minor())
		assert.Equal(t, "2025-01-31", req.StartDate.Format(DateLayout))
	})

	t.Run("explicit currency and lumps", func(t *testing.T) {
		r := baseRequest()
		r.Currency = "usd"
		r.InterimPayments = []LumpPaymentRequest{{Month: 3, Amount: dec("1000")}}
		r.DeliveryPayment = &LumpPaymentRequest{Month: 12, Amount: dec("500"), Note: "keys"}

		req, err := r.ToDomain(valueobject.TRY)
		require.NoError(t, err)
		assert.Equal(t, valueobject.USD, req.Currency)
		require.Len(t, req.InterimPayments, 1)
		assert.Equal(t, valueobject.USD, req.InterimPayments[0].Amount.Currency())
		require.NotNil(t, req.DeliveryPayment)
		assert.Equal(t, "keys", req.DeliveryPayment.Note)
	})

	tests := map[string]func(r *ScheduleRequest){
		"bad date":      func(r *ScheduleRequest) { r.StartDate = "31/01/2025" },
		"bad currency":  func(r *ScheduleRequest) { r.Currency = "ZZZ" },
		"negative rate": func(r *ScheduleRequest) { r.MonthlyInterestRate = dec("-1") },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := baseRequest()
			mutate(&r)
			_, err := r.ToDomain(valueobject.TRY)
			assert.True(t, shared.IsValidationError(err), "got %v", err)
		})
	}
}

func TestService_Estimate(t *testing.T) {
	svc := NewService(new(MockPlanRepository), valueobject.TRY)

	resp, err := svc.Estimate(context.Background(), baseRequest())
	require.NoError(t, err)
	assert.True(t, resp.Reconciled)
	assert.Len(t, resp.Items, 13)
	assert.Equal(t, "DOWN_PAYMENT", resp.Items[0].Kind)
	assert.Equal(t, int64(216000), resp.TotalInterest.Minor())
	assert.Equal(t, int64(1716000), resp.GrandTotal.Minor())
	assert.Equal(t, "2025-02-28", resp.Items[1].DueDate)

	t.Run("domain validation surfaces", func(t *testing.T) {
		r := baseRequest()
		r.Principal = decimal.Zero
		_, err := svc.Estimate(context.Background(), r)
		assert.True(t, shared.IsValidationError(err))
	})
}

func TestService_GenerateForContract(t *testing.T) {
	repo := new(MockPlanRepository)
	svc := NewService(repo, valueobject.TRY)
	tenantID, contractID := uuid.New(), uuid.New()

	repo.On("Replace", mock.Anything, mock.MatchedBy(func(p *schedule.PaymentPlan) bool {
		return p.TenantID == tenantID && p.ContractID == contractID && len(p.Items) == 13
	})).Return(nil).Once()

	resp, err := svc.GenerateForContract(context.Background(), tenantID, contractID, baseRequest())
	require.NoError(t, err)
	assert.Equal(t, contractID, resp.ContractID)
	assert.Equal(t, "1.5", resp.MonthlyInterestRate)
	for _, item := range resp.Items {
		assert.NotNil(t, item.ID)
	}
	repo.AssertExpectations(t)

	t.Run("invalid request is not stored", func(t *testing.T) {
		r := baseRequest()
		r.InstallmentCount = -1
		_, err := svc.GenerateForContract(context.Background(), tenantID, contractID, r)
		assert.True(t, shared.IsValidationError(err))
		repo.AssertNumberOfCalls(t, "Replace", 1)
	})
}

func TestService_GetPlan(t *testing.T) {
	repo := new(MockPlanRepository)
	svc := NewService(repo, "")
	tenantID, contractID := uuid.New(), uuid.New()

	repo.On("FindByContract", mock.Anything, tenantID, contractID).
		Return(nil, shared.NewNotFoundError("payment_plan", "no payment plan for contract")).Once()

	_, err := svc.GetPlan(context.Background(), tenantID, contractID)
	assert.True(t, shared.IsNotFoundError(err))
}
