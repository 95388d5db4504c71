package payout

import (
	"context"

	"github.com/estate/backend/internal/domain/payout"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) ListEligible(ctx context.Context, tenantID, brokerID uuid.UUID) ([]payout.EligibleItem, error) {
	args := m.Called(ctx, tenantID, brokerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payout.EligibleItem), args.Error(1)
}

func (m *MockItemRepository) FindEligible(ctx context.Context, tenantID uuid.UUID, refs []payout.ItemRef) ([]payout.EligibleItem, error) {
	args := m.Called(ctx, tenantID, refs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]payout.EligibleItem), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, record *payout.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payout.PaymentRecord, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payout.PaymentRecord), args.Error(1)
}

func (m *MockPaymentRepository) ListByBroker(ctx context.Context, tenantID, brokerID uuid.UUID, filter shared.Filter) ([]payout.PaymentRecord, int64, error) {
	args := m.Called(ctx, tenantID, brokerID, filter)
	return args.Get(0).([]payout.PaymentRecord), args.Get(1).(int64), args.Error(2)
}

type MockSettler struct {
	mock.Mock
}

func (m *MockSettler) Settle(ctx context.Context, record *payout.PaymentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockBrokerDirectory struct {
	mock.Mock
}

func (m *MockBrokerDirectory) FindBrokerIDByEmail(ctx context.Context, tenantID uuid.UUID, email string) (uuid.UUID, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Get(0).(uuid.UUID), args.Error(1)
}
