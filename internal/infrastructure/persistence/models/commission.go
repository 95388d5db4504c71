package models

import (
	"time"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CommissionModelModel is the persistence model for a commission model's header row
type CommissionModelModel struct {
	TenantAggregateModel
	Name         string                 `gorm:"type:varchar(200);not null"`
	Type         commission.ModelType   `gorm:"type:varchar(32);not null;index"`
	ProjectID    *uuid.UUID             `gorm:"type:uuid;index"`
	BaseValue    decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Currency     string                 `gorm:"type:varchar(3)"`
	PayableStage string                 `gorm:"type:varchar(100)"`
	CountScope   commission.CountScope  `gorm:"type:varchar(20);not null;default:'PROJECT'"`
	ValidFrom    *time.Time             `gorm:"type:date"`
	ValidTo      *time.Time             `gorm:"type:date"`
	Status       commission.ModelStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
}

// TableName returns the table name for GORM
func (CommissionModelModel) TableName() string {
	return "commission_models"
}

// CommissionTierModel is one tier row of a TIERED model
type CommissionTierModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ModelID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null;default:0"`
	MinUnits  int             `gorm:"not null"`
	MaxUnits  *int
	Value     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CommissionTierModel) TableName() string {
	return "commission_tiers"
}

// CommissionUnitRuleModel is one property-type rule of a unit-based model
type CommissionUnitRuleModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ModelID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null;default:0"`
	PropertyType string          `gorm:"type:varchar(50);not null"`
	Value        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CommissionUnitRuleModel) TableName() string {
	return "commission_unit_rules"
}

// ToDomain converts the header row; tiers and rules are attached separately
func (m *CommissionModelModel) ToDomain() *commission.CommissionModel {
	return &commission.CommissionModel{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Type:                m.Type,
		ProjectID:           m.ProjectID,
		BaseValue:           m.BaseValue,
		Currency:            valueobject.Currency(m.Currency),
		PayableStage:        m.PayableStage,
		CountScope:          m.CountScope,
		ValidFrom:           m.ValidFrom,
		ValidTo:             m.ValidTo,
		Status:              m.Status,
	}
}

// CommissionModelFromDomain creates the header row from a domain model
func CommissionModelFromDomain(c *commission.CommissionModel) *CommissionModelModel {
	m := &CommissionModelModel{
		Name:         c.Name,
		Type:         c.Type,
		ProjectID:    c.ProjectID,
		BaseValue:    c.BaseValue,
		Currency:     c.Currency.String(),
		PayableStage: c.PayableStage,
		CountScope:   c.CountScope,
		ValidFrom:    c.ValidFrom,
		ValidTo:      c.ValidTo,
		Status:       c.Status,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// TierModelsFromDomain creates tier rows in list order
func TierModelsFromDomain(c *commission.CommissionModel) []CommissionTierModel {
	rows := make([]CommissionTierModel, len(c.Tiers))
	for i, t := range c.Tiers {
		rows[i] = CommissionTierModel{
			ID:        t.ID,
			TenantID:  c.TenantID,
			ModelID:   c.ID,
			Position:  i,
			MinUnits:  t.MinUnits,
			MaxUnits:  t.MaxUnits,
			Value:     t.Value,
			CreatedAt: c.UpdatedAt,
		}
	}
	return rows
}

// ToDomain converts a tier row
func (m *CommissionTierModel) ToDomain() commission.Tier {
	return commission.Tier{ID: m.ID, MinUnits: m.MinUnits, MaxUnits: m.MaxUnits, Value: m.Value}
}

// UnitRuleModelsFromDomain creates unit rule rows in list order
func UnitRuleModelsFromDomain(c *commission.CommissionModel) []CommissionUnitRuleModel {
	rows := make([]CommissionUnitRuleModel, len(c.UnitRules))
	for i, r := range c.UnitRules {
		rows[i] = CommissionUnitRuleModel{
			ID:           r.ID,
			TenantID:     c.TenantID,
			ModelID:      c.ID,
			Position:     i,
			PropertyType: r.PropertyType,
			Value:        r.Value,
			CreatedAt:    c.UpdatedAt,
		}
	}
	return rows
}

// ToDomain converts a unit rule row
func (m *CommissionUnitRuleModel) ToDomain() commission.UnitTypeRule {
	return commission.UnitTypeRule{ID: m.ID, PropertyType: m.PropertyType, Value: m.Value}
}

// CommissionRecordModel is the persistence model for an earned commission
type CommissionRecordModel struct {
	TenantAggregateModel
	MoneyColumns
	BrokerID       uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_commission_broker_sale,priority:1"`
	SaleID         uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex:idx_commission_broker_sale,priority:2"`
	ModelID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	ProjectID      *uuid.UUID              `gorm:"type:uuid;index"`
	BasisType      commission.ModelType    `gorm:"type:varchar(32);not null"`
	BasisValue     decimal.Decimal         `gorm:"type:decimal(18,4);not null"`
	BasisIsPercent bool                    `gorm:"not null;default:false"`
	BasisTierID    *uuid.UUID              `gorm:"type:uuid"`
	BasisRuleID    *uuid.UUID              `gorm:"type:uuid"`
	BasisFellBack  bool                    `gorm:"not null;default:false"`
	Status         commission.RecordStatus `gorm:"type:varchar(20);not null;default:'ELIGIBLE';index"`
	PaidAt         *time.Time
	PaymentID      *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (CommissionRecordModel) TableName() string {
	return "commission_records"
}

// ToDomain converts the persistence model to a domain CommissionRecord
func (m *CommissionRecordModel) ToDomain() *commission.CommissionRecord {
	return &commission.CommissionRecord{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		BrokerID:            m.BrokerID,
		SaleID:              m.SaleID,
		ModelID:             m.ModelID,
		ProjectID:           m.ProjectID,
		Amount:              m.Money(),
		Basis: commission.Basis{
			ModelType: m.BasisType,
			Value:     m.BasisValue,
			IsPercent: m.BasisIsPercent,
			TierID:    m.BasisTierID,
			RuleID:    m.BasisRuleID,
			FellBack:  m.BasisFellBack,
		},
		Status:    m.Status,
		PaidAt:    m.PaidAt,
		PaymentID: m.PaymentID,
	}
}

// CommissionRecordFromDomain creates a persistence model from a domain CommissionRecord
func CommissionRecordFromDomain(r *commission.CommissionRecord) *CommissionRecordModel {
	m := &CommissionRecordModel{
		MoneyColumns:   NewMoneyColumns(r.Amount),
		BrokerID:       r.BrokerID,
		SaleID:         r.SaleID,
		ModelID:        r.ModelID,
		ProjectID:      r.ProjectID,
		BasisType:      r.Basis.ModelType,
		BasisValue:     r.Basis.Value,
		BasisIsPercent: r.Basis.IsPercent,
		BasisTierID:    r.Basis.TierID,
		BasisRuleID:    r.Basis.RuleID,
		BasisFellBack:  r.Basis.FellBack,
		Status:         r.Status,
		PaidAt:         r.PaidAt,
		PaymentID:      r.PaymentID,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}

// IncentiveRecordModel is the persistence model for a broker incentive
type IncentiveRecordModel struct {
	TenantAggregateModel
	MoneyColumns
	BrokerID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	Reason    string                  `gorm:"type:text"`
	Status    commission.RecordStatus `gorm:"type:varchar(20);not null;default:'ELIGIBLE';index"`
	PaidAt    *time.Time
	PaymentID *uuid.UUID `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (IncentiveRecordModel) TableName() string {
	return "incentive_records"
}

// ToDomain converts the persistence model to a domain IncentiveRecord
func (m *IncentiveRecordModel) ToDomain() *commission.IncentiveRecord {
	return &commission.IncentiveRecord{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		BrokerID:            m.BrokerID,
		Amount:              m.Money(),
		Reason:              m.Reason,
		Status:              m.Status,
		PaidAt:              m.PaidAt,
		PaymentID:           m.PaymentID,
	}
}

// IncentiveRecordFromDomain creates a persistence model from a domain IncentiveRecord
func IncentiveRecordFromDomain(r *commission.IncentiveRecord) *IncentiveRecordModel {
	m := &IncentiveRecordModel{
		MoneyColumns: NewMoneyColumns(r.Amount),
		BrokerID:     r.BrokerID,
		Reason:       r.Reason,
		Status:       r.Status,
		PaidAt:       r.PaidAt,
		PaymentID:    r.PaymentID,
	}
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	return m
}
