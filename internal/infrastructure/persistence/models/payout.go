package models

import (
	"time"

	"github.com/estate/backend/internal/domain/payout"
	"github.com/google/uuid"
)

// PaymentRecordModel is the persistence model for a broker payment
type PaymentRecordModel struct {
	TenantAggregateModel
	MoneyColumns
	BrokerID  uuid.UUID            `gorm:"type:uuid;not null;index"`
	Method    payout.PaymentMethod `gorm:"type:varchar(20);not null"`
	Reference string               `gorm:"type:varchar(100)"`
	Note      string               `gorm:"type:text"`
	Source    payout.PaymentSource `gorm:"type:varchar(10);not null"`
	PaidAt    time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (PaymentRecordModel) TableName() string {
	return "payment_records"
}

// PaymentRecordItemModel links a payment to one settled item
type PaymentRecordItemModel struct {
	PaymentID uuid.UUID       `gorm:"type:uuid;primary_key"`
	ItemType  payout.ItemType `gorm:"type:varchar(20);primary_key"`
	ItemID    uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PaymentRecordItemModel) TableName() string {
	return "payment_record_items"
}

// ToDomain converts the header row and its item links
func (m *PaymentRecordModel) ToDomain(items []PaymentRecordItemModel) *payout.PaymentRecord {
	refs := make([]payout.ItemRef, len(items))
	for i, it := range items {
		refs[i] = payout.ItemRef{Type: it.ItemType, ID: it.ItemID}
	}
	return &payout.PaymentRecord{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		BrokerID:            m.BrokerID,
		Amount:              m.Money(),
		Method:              m.Method,
		Reference:           m.Reference,
		Note:                m.Note,
		Source:              m.Source,
		PaidAt:              m.PaidAt,
		Items:               refs,
	}
}

// PaymentRecordFromDomain creates the header row and item links
func PaymentRecordFromDomain(p *payout.PaymentRecord) (*PaymentRecordModel, []PaymentRecordItemModel) {
	m := &PaymentRecordModel{
		MoneyColumns: NewMoneyColumns(p.Amount),
		BrokerID:     p.BrokerID,
		Method:       p.Method,
		Reference:    p.Reference,
		Note:         p.Note,
		Source:       p.Source,
		PaidAt:       p.PaidAt,
	}
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)

	items := make([]PaymentRecordItemModel, len(p.Items))
	for i, ref := range p.Items {
		items[i] = PaymentRecordItemModel{
			PaymentID: p.ID,
			ItemType:  ref.Type,
			ItemID:    ref.ID,
			TenantID:  p.TenantID,
			Position:  i,
		}
	}
	return m, items
}
