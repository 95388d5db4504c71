package models

import (
	"time"

	"github.com/estate/backend/internal/domain/schedule"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentPlanModel is the persistence model for a contract payment plan
type PaymentPlanModel struct {
	TenantAggregateModel
	ContractID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_plan_contract"`
	Currency            string          `gorm:"type:varchar(3);not null"`
	PrincipalMinor      int64           `gorm:"not null"`
	DownPaymentMinor    int64           `gorm:"not null;default:0"`
	MonthlyInterestRate decimal.Decimal `gorm:"type:decimal(9,4);not null;default:0"`
	InstallmentCount    int             `gorm:"not null"`
	StartDate           time.Time       `gorm:"type:date;not null"`
	TotalInterestMinor  int64           `gorm:"not null;default:0"`
	GrandTotalMinor     int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentPlanModel) TableName() string {
	return "payment_plans"
}

// PaymentPlanItemModel is one obligation of a plan
type PaymentPlanItemModel struct {
	ID             uuid.UUID               `gorm:"type:uuid;primary_key"`
	TenantID       uuid.UUID               `gorm:"type:uuid;not null;index"`
	PlanID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	Position       int                     `gorm:"not null"`
	Kind           schedule.ObligationKind `gorm:"type:varchar(20);not null"`
	Sequence       int                     `gorm:"not null;default:0"`
	DueDate        time.Time               `gorm:"type:date;not null"`
	AmountMinor    int64                   `gorm:"not null"`
	PrincipalMinor int64                   `gorm:"not null;default:0"`
	InterestMinor  int64                   `gorm:"not null;default:0"`
	Description    string                  `gorm:"type:varchar(200)"`
	Note           string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (PaymentPlanItemModel) TableName() string {
	return "payment_plan_items"
}

// PaymentPlanFromDomain creates the plan row and its item rows
func PaymentPlanFromDomain(p *schedule.PaymentPlan) (*PaymentPlanModel, []PaymentPlanItemModel) {
	m := &PaymentPlanModel{
		ContractID:          p.ContractID,
		Currency:            p.Currency.String(),
		PrincipalMinor:      p.Principal.Minor(),
		DownPaymentMinor:    p.DownPayment.Minor(),
		MonthlyInterestRate: p.MonthlyInterestRate.Decimal(),
		InstallmentCount:    p.InstallmentCount,
		StartDate:           p.StartDate,
		TotalInterestMinor:  p.TotalInterest.Minor(),
		GrandTotalMinor:     p.GrandTotal.Minor(),
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)

	items := make([]PaymentPlanItemModel, len(p.Items))
	for i, it := range p.Items {
		items[i] = PaymentPlanItemModel{
			ID:             it.ID,
			TenantID:       p.TenantID,
			PlanID:         p.ID,
			Position:       i,
			Kind:           it.Kind,
			Sequence:       it.Sequence,
			DueDate:        it.DueDate,
			AmountMinor:    it.Amount.Minor(),
			PrincipalMinor: it.PrincipalPortion.Minor(),
			InterestMinor:  it.InterestPortion.Minor(),
			Description:    it.Description,
			Note:           it.Note,
		}
	}
	return m, items
}

// ToDomain rebuilds the plan from its rows; items must be in position order
func (m *PaymentPlanModel) ToDomain(items []PaymentPlanItemModel) (*schedule.PaymentPlan, error) {
	cur := valueobject.Currency(m.Currency)
	money := func(minor int64) valueobject.Money { return valueobject.NewMoneyFromMinor(minor, cur) }

	rate, err := valueobject.NewPercentage(m.MonthlyInterestRate)
	if err != nil {
		return nil, err
	}

	plan := &schedule.PaymentPlan{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		ContractID:          m.ContractID,
		Currency:            cur,
		Principal:           money(m.PrincipalMinor),
		DownPayment:         money(m.DownPaymentMinor),
		MonthlyInterestRate: rate,
		InstallmentCount:    m.InstallmentCount,
		StartDate:           m.StartDate,
		TotalInterest:       money(m.TotalInterestMinor),
		GrandTotal:          money(m.GrandTotalMinor),
		Items:               make([]schedule.PlanItem, len(items)),
	}
	for i, it := range items {
		plan.Items[i] = schedule.PlanItem{
			ID: it.ID,
			Obligation: schedule.Obligation{
				Kind:             it.Kind,
				Sequence:         it.Sequence,
				DueDate:          it.DueDate,
				Amount:           money(it.AmountMinor),
				PrincipalPortion: money(it.PrincipalMinor),
				InterestPortion:  money(it.InterestMinor),
				Description:      it.Description,
				Note:             it.Note,
			},
		}
	}
	return plan, nil
}
