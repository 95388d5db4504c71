package models

import (
	"time"

	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TenantAggregateModel provides common persistence fields for tenant-scoped aggregate roots
type TenantAggregateModel struct {
	BaseModel
	Version  int       `gorm:"not null;default:1"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainTenantAggregateRoot populates TenantAggregateModel from a domain TenantAggregateRoot
func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.ID = t.ID
	m.CreatedAt = t.CreatedAt
	m.UpdatedAt = t.UpdatedAt
	m.Version = t.Version
	m.TenantID = t.TenantID
}

// ToDomainTenantAggregateRoot converts the shared columns back to a domain TenantAggregateRoot
func (m *TenantAggregateModel) ToDomainTenantAggregateRoot() shared.TenantAggregateRoot {
	return tenantAggregateRoot(m.BaseModel, m.Version, m.TenantID)
}

func tenantAggregateRoot(b BaseModel, version int, tenantID uuid.UUID) shared.TenantAggregateRoot {
	return shared.TenantAggregateRoot{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        b.ID,
				CreatedAt: b.CreatedAt,
				UpdatedAt: b.UpdatedAt,
			},
			Version: version,
		},
		TenantID: tenantID,
	}
}

// MoneyColumns stores an amount as integer minor units plus its ISO currency
type MoneyColumns struct {
	AmountMinor int64  `gorm:"column:amount_minor;not null;default:0"`
	Currency    string `gorm:"column:currency;type:varchar(3);not null"`
}

// NewMoneyColumns splits m into its persisted columns
func NewMoneyColumns(m valueobject.Money) MoneyColumns {
	return MoneyColumns{AmountMinor: m.Minor(), Currency: m.Currency().String()}
}

// Money rebuilds the value object
func (c MoneyColumns) Money() valueobject.Money {
	return valueobject.NewMoneyFromMinor(c.AmountMinor, valueobject.Currency(c.Currency))
}

// All returns every persistence model, in dependency order, for AutoMigrate
// in tests. Production schemas come from the SQL migrations.
func All() []any {
	return []any{
		&BrokerModel{},
		&CommissionModelModel{},
		&CommissionTierModel{},
		&CommissionUnitRuleModel{},
		&CommissionRecordModel{},
		&IncentiveRecordModel{},
		&PaymentRecordModel{},
		&PaymentRecordItemModel{},
		&PaymentPlanModel{},
		&PaymentPlanItemModel{},
	}
}
