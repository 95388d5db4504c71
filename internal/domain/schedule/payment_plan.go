package schedule

import (
	"context"
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PaymentPlan is a generated schedule persisted for one contract
type PaymentPlan struct {
	shared.TenantAggregateRoot
	ContractID          uuid.UUID
	Currency            valueobject.Currency
	Principal           valueobject.Money
	DownPayment         valueobject.Money
	MonthlyInterestRate valueobject.Percentage
	InstallmentCount    int
	StartDate           time.Time
	TotalInterest       valueobject.Money
	GrandTotal          valueobject.Money
	Items               []PlanItem
}

// PlanItem is a persisted Obligation
type PlanItem struct {
	ID uuid.UUID
	Obligation
}

// NewPaymentPlan captures a generated result for a contract
func NewPaymentPlan(tenantID, contractID uuid.UUID, req Request, result *Result) (*PaymentPlan, error) {
	if contractID == uuid.Nil {
		return nil, shared.NewValidationError("contractId", "contract ID is required")
	}
	if result == nil {
		return nil, shared.NewValidationError("schedule", "schedule result is required")
	}

	items := make([]PlanItem, len(result.Items))
	for i, o := range result.Items {
		items[i] = PlanItem{ID: uuid.New(), Obligation: o}
	}

	return &PaymentPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ContractID:          contractID,
		Currency:            result.Currency,
		Principal:           req.Principal,
		DownPayment:         valueobject.NewMoneyFromMinor(req.DownPayment.Minor(), result.Currency),
		MonthlyInterestRate: req.MonthlyInterestRate,
		InstallmentCount:    req.InstallmentCount,
		StartDate:           req.StartDate,
		TotalInterest:       result.TotalInterest,
		GrandTotal:          result.GrandTotal,
		Items:               items,
	}, nil
}

// PaymentPlanRepository persists contract payment plans
type PaymentPlanRepository interface {
	FindByContract(ctx context.Context, tenantID, contractID uuid.UUID) (*PaymentPlan, error)
	// Replace stores plan as the contract's only plan, removing any previous one
	Replace(ctx context.Context, plan *PaymentPlan) error
}
