package commission

import (
	"context"

	"github.com/estate/backend/internal/domain/broker"
	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockBrokerRepository struct {
	mock.Mock
}

func (m *MockBrokerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*broker.Broker, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*broker.Broker), args.Error(1)
}

func (m *MockBrokerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*broker.Broker, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*broker.Broker), args.Error(1)
}

func (m *MockBrokerRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]broker.Broker, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]broker.Broker), args.Get(1).(int64), args.Error(2)
}

func (m *MockBrokerRepository) Save(ctx context.Context, b *broker.Broker) error {
	return m.Called(ctx, b).Error(0)
}

type MockModelRepository struct {
	mock.Mock
}

func (m *MockModelRepository) FindModel(ctx context.Context, tenantID, id uuid.UUID) (*commission.CommissionModel, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.CommissionModel), args.Error(1)
}

func (m *MockModelRepository) FindTiers(ctx context.Context, tenantID, modelID uuid.UUID) ([]commission.Tier, error) {
	args := m.Called(ctx, tenantID, modelID)
	return args.Get(0).([]commission.Tier), args.Error(1)
}

func (m *MockModelRepository) FindUnitRules(ctx context.Context, tenantID, modelID uuid.UUID) ([]commission.UnitTypeRule, error) {
	args := m.Called(ctx, tenantID, modelID)
	return args.Get(0).([]commission.UnitTypeRule), args.Error(1)
}

func (m *MockModelRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*commission.CommissionModel, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.CommissionModel), args.Error(1)
}

func (m *MockModelRepository) List(ctx context.Context, tenantID uuid.UUID, filter commission.ModelFilter) ([]commission.CommissionModel, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]commission.CommissionModel), args.Get(1).(int64), args.Error(2)
}

func (m *MockModelRepository) Save(ctx context.Context, model *commission.CommissionModel) error {
	return m.Called(ctx, model).Error(0)
}

func (m *MockModelRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) CreateCommission(ctx context.Context, record *commission.CommissionRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) CreateIncentive(ctx context.Context, record *commission.IncentiveRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepository) FindCommissionBySale(ctx context.Context, tenantID, brokerID, saleID uuid.UUID) (*commission.CommissionRecord, error) {
	args := m.Called(ctx, tenantID, brokerID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commission.CommissionRecord), args.Error(1)
}

func (m *MockRecordRepository) CountByModel(ctx context.Context, tenantID, modelID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, modelID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRecordRepository) CountBrokerSales(ctx context.Context, tenantID, brokerID uuid.UUID, projectID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, brokerID, projectID)
	return args.Get(0).(int64), args.Error(1)
}
