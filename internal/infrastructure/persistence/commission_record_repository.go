package persistence

import (
	"context"

	"github.com/estate/backend/internal/domain/commission"
	"github.com/estate/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRecordRepository implements commission.RecordRepository using GORM
type GormRecordRepository struct {
	db *gorm.DB
}

// NewGormRecordRepository creates a new GormRecordRepository
func NewGormRecordRepository(db *gorm.DB) *GormRecordRepository {
	return &GormRecordRepository{db: db}
}

// CreateCommission inserts an earned commission. A second record for the
// same broker and sale is a conflict.
func (r *GormRecordRepository) CreateCommission(ctx context.Context, record *commission.CommissionRecord) error {
	return translateError(r.db.WithContext(ctx).Create(models.CommissionRecordFromDomain(record)).Error, "commission_record")
}

// CreateIncentive inserts an incentive
func (r *GormRecordRepository) CreateIncentive(ctx context.Context, record *commission.IncentiveRecord) error {
	return translateError(r.db.WithContext(ctx).Create(models.IncentiveRecordFromDomain(record)).Error, "incentive_record")
}

// FindCommissionBySale returns the commission recorded for a broker's sale
func (r *GormRecordRepository) FindCommissionBySale(ctx context.Context, tenantID, brokerID, saleID uuid.UUID) (*commission.CommissionRecord, error) {
	var model models.CommissionRecordModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND broker_id = ? AND sale_id = ?", tenantID, brokerID, saleID).
		First(&model).Error; err != nil {
		return nil, translateError(err, "commission_record")
	}
	return model.ToDomain(), nil
}

// CountByModel counts commission records referencing a model
func (r *GormRecordRepository) CountByModel(ctx context.Context, tenantID, modelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommissionRecordModel{}).
		Where("tenant_id = ? AND model_id = ?", tenantID, modelID).
		Count(&count).Error
	return count, err
}

// CountBrokerSales counts a broker's recorded sales, within projectID when non-nil
func (r *GormRecordRepository) CountBrokerSales(ctx context.Context, tenantID, brokerID uuid.UUID, projectID *uuid.UUID) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionRecordModel{}).
		Where("tenant_id = ? AND broker_id = ?", tenantID, brokerID)
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
