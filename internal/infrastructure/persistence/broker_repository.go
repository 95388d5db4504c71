package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/estate/backend/internal/domain/broker"
	"github.com/estate/backend/internal/domain/shared"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBrokerRepository implements broker.Repository and payout.BrokerDirectory using GORM
type GormBrokerRepository struct {
	db *gorm.DB
}

// NewGormBrokerRepository creates a new GormBrokerRepository
func NewGormBrokerRepository(db *gorm.DB) *GormBrokerRepository {
	return &GormBrokerRepository{db: db}
}

// FindByID finds a broker by ID within a tenant
func (r *GormBrokerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*broker.Broker, error) {
	var model models.BrokerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, translateError(err, "broker")
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a broker by email within a tenant. Emails compare case-insensitively.
func (r *GormBrokerRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*broker.Broker, error) {
	normalized := broker.NormalizeEmail(email)
	if normalized == "" {
		return nil, shared.NewValidationError("email", "email cannot be empty")
	}
	var model models.BrokerModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, normalized).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError("broker", fmt.Sprintf("no broker with email %s", normalized))
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBrokerIDByEmail resolves the broker identifier used by payment import files
func (r *GormBrokerRepository) FindBrokerIDByEmail(ctx context.Context, tenantID uuid.UUID, email string) (uuid.UUID, error) {
	b, err := r.FindByEmail(ctx, tenantID, email)
	if err != nil {
		return uuid.Nil, err
	}
	return b.ID, nil
}

// List returns a page of a tenant's brokers. Search matches name or email;
// Filters["status"] narrows by status.
func (r *GormBrokerRepository) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]broker.Broker, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BrokerModel{}).Where("tenant_id = ?", tenantID)
	if status, ok := filter.Filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BrokerModel
	if err := paginate(query, filter, BrokerSortFields, "created_at").Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	brokers := make([]broker.Broker, len(rows))
	for i := range rows {
		brokers[i] = *rows[i].ToDomain()
	}
	return brokers, total, nil
}

// Save creates or updates a broker
func (r *GormBrokerRepository) Save(ctx context.Context, b *broker.Broker) error {
	return translateError(r.db.WithContext(ctx).Save(models.BrokerModelFromDomain(b)).Error, "broker")
}
