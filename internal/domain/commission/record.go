package commission

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// RecordStatus is the settlement state of an earned item
type RecordStatus string

const (
	RecordStatusEligible RecordStatus = "ELIGIBLE"
	RecordStatusPaid     RecordStatus = "PAID"
)

// IsValid checks if the status is valid
func (s RecordStatus) IsValid() bool {
	return s == RecordStatusEligible || s == RecordStatusPaid
}

// CommissionRecord is the persisted result of resolving a model for one sale.
// Only Status (with PaidAt and PaymentID) changes after creation.
type CommissionRecord struct {
	shared.TenantAggregateRoot
	BrokerID  uuid.UUID
	SaleID    uuid.UUID
	ModelID   uuid.UUID
	ProjectID *uuid.UUID
	Amount    valueobject.Money
	Basis     Basis
	Status    RecordStatus
	PaidAt    *time.Time
	PaymentID *uuid.UUID
}

// NewCommissionRecord creates an eligible record from a resolution
func NewCommissionRecord(tenantID, brokerID, saleID, modelID uuid.UUID, projectID *uuid.UUID, res *Resolution) (*CommissionRecord, error) {
	if brokerID == uuid.Nil {
		return nil, shared.NewValidationError("brokerId", "broker ID is required")
	}
	if saleID == uuid.Nil {
		return nil, shared.NewValidationError("saleId", "sale ID is required")
	}
	if res == nil || res.Amount.IsNegative() {
		return nil, shared.NewValidationError("amount", "commission amount cannot be negative")
	}
	return &CommissionRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BrokerID:            brokerID,
		SaleID:              saleID,
		ModelID:             modelID,
		ProjectID:           projectID,
		Amount:              res.Amount,
		Basis:               res.Basis,
		Status:              RecordStatusEligible,
	}, nil
}

// MarkPaid flips an eligible record to paid
func (r *CommissionRecord) MarkPaid(paymentID uuid.UUID, at time.Time) error {
	if r.Status != RecordStatusEligible {
		return shared.NewInvalidStateError("only eligible commission records can be paid")
	}
	r.Status = RecordStatusPaid
	r.PaidAt = &at
	r.PaymentID = &paymentID
	r.Touch()
	r.IncrementVersion()
	return nil
}

// IncentiveRecord is a one-off bonus owed to a broker, settled like a commission
type IncentiveRecord struct {
	shared.TenantAggregateRoot
	BrokerID  uuid.UUID
	Amount    valueobject.Money
	Reason    string
	Status    RecordStatus
	PaidAt    *time.Time
	PaymentID *uuid.UUID
}

// NewIncentiveRecord creates an eligible incentive
func NewIncentiveRecord(tenantID, brokerID uuid.UUID, amount valueobject.Money, reason string) (*IncentiveRecord, error) {
	if brokerID == uuid.Nil {
		return nil, shared.NewValidationError("brokerId", "broker ID is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewValidationError("amount", "incentive amount must be positive")
	}
	if !amount.Currency().IsValid() {
		return nil, shared.NewValidationError("currency", "incentive currency is invalid")
	}
	return &IncentiveRecord{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BrokerID:            brokerID,
		Amount:              amount,
		Reason:              reason,
		Status:              RecordStatusEligible,
	}, nil
}

// RecordRepository persists commission and incentive records
type RecordRepository interface {
	CreateCommission(ctx context.Context, record *CommissionRecord) error
	CreateIncentive(ctx context.Context, record *IncentiveRecord) error
	FindCommissionBySale(ctx context.Context, tenantID, brokerID, saleID uuid.UUID) (*CommissionRecord, error)
	// CountByModel counts commission records referencing a model
	CountByModel(ctx context.Context, tenantID, modelID uuid.UUID) (int64, error)
	// CountBrokerSales counts a broker's recorded sales, within projectID when non-nil
	CountBrokerSales(ctx context.Context, tenantID, brokerID uuid.UUID, projectID *uuid.UUID) (int64, error)
}
