package models

import (
	"github.com/estate/backend/internal/domain/broker"
	"github.com/google/uuid"
)

// BrokerModel is the persistence model for the Broker domain entity.
// Email is unique per tenant, so the tenant column is declared here rather
// than through TenantAggregateModel.
type BrokerModel struct {
	BaseModel
	Version  int           `gorm:"not null;default:1"`
	TenantID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_broker_tenant_email,priority:1"`
	Name     string        `gorm:"type:varchar(200);not null"`
	Email    string        `gorm:"type:varchar(200);not null;uniqueIndex:idx_broker_tenant_email,priority:2"`
	Phone    string        `gorm:"type:varchar(50)"`
	Status   broker.Status `gorm:"type:varchar(20);not null;default:'ACTIVE'"`
}

// TableName returns the table name for GORM
func (BrokerModel) TableName() string {
	return "brokers"
}

// ToDomain converts the persistence model to a domain Broker
func (m *BrokerModel) ToDomain() *broker.Broker {
	return &broker.Broker{
		TenantAggregateRoot: tenantAggregateRoot(m.BaseModel, m.Version, m.TenantID),
		Name:                m.Name,
		Email:               m.Email,
		Phone:               m.Phone,
		Status:              m.Status,
	}
}

// BrokerModelFromDomain creates a persistence model from a domain Broker
func BrokerModelFromDomain(b *broker.Broker) *BrokerModel {
	return &BrokerModel{
		BaseModel: BaseModel{ID: b.ID, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt},
		Version:   b.Version,
		TenantID:  b.TenantID,
		Name:      b.Name,
		Email:     b.Email,
		Phone:     b.Phone,
		Status:    b.Status,
	}
}
